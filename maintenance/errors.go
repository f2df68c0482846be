package maintenance

import "github.com/tangerg/ragengine/ragerr"

var errShortBatchResult = ragerr.ProviderError("embed batch returned fewer results than requested", nil)
