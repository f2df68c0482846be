package graphrag

import "github.com/tangerg/ragengine/ragerr"

var (
	errNoBalancedObject = ragerr.ParseError("extraction: no balanced JSON object found in model output")
	errNoGraphReader      = ragerr.NotFound("graph store does not implement GraphReader")
	errNoCommunityCapable = ragerr.NotFound("graph store does not implement CommunityCapable")
)
