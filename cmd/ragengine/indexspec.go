package main

import (
	"github.com/tangerg/ragengine/embedder"
	"github.com/tangerg/ragengine/vectorstore"
)

func indexSpecFor(emb embedder.Provider) vectorstore.IndexSpec {
	dims, _ := emb.Dimensions("")
	if dims <= 0 {
		dims = 1536
	}
	return vectorstore.IndexSpec{
		Dimensions: dims,
		Metric:     vectorstore.MetricCosine,
		Kind:       vectorstore.IndexFlat,
	}
}
