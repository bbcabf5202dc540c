// Package extractors holds the raw result document extractors.
//
// Each sub-package implements driven.ResultExtractor for one document
// encoding. jsonpath reads JSON documents by configurable gjson paths.
package extractors
