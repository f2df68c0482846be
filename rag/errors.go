package rag

import "github.com/tangerg/ragengine/ragerr"

var (
	errNoFulltext        = ragerr.NotFound("vector store does not implement FulltextCapable")
	errNoGraphSearch     = ragerr.NotFound("graph store does not implement EntitySearchCapable")
	errNoGraphTraversal  = ragerr.NotFound("graph store does not implement TraversalCapable")
	errNoCommunitySearch = ragerr.NotFound("graph store does not implement CommunityCapable")
	errSufficiencyParse  = ragerr.ParseError("sufficiency check: no JSON object found in model output")
	errGroundingParse    = ragerr.ParseError("grounding check: no JSON object found in model output")
)
