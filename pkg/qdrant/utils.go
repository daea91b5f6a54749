package qdrant

import (
	qdrant "github.com/qdrant/go-client/qdrant"
)

// extractVectorDetails safely extracts the vector size and distance metric
// (e.g. "Cosine", "Dot", "Euclid") from a CollectionInfo.
//
// Qdrant represents vector configuration with nested protobuf "oneof"
// wrappers; missing or unexpected values yield (0, "").
func extractVectorDetails(info *qdrant.CollectionInfo) (int, string) {
	if info == nil ||
		info.Config == nil ||
		info.Config.Params == nil ||
		info.Config.Params.VectorsConfig == nil ||
		info.Config.Params.VectorsConfig.Config == nil {
		return 0, ""
	}

	if cfg, ok := info.Config.Params.VectorsConfig.Config.(*qdrant.VectorsConfig_Params); ok {
		return int(cfg.Params.Size), cfg.Params.Distance.String()
	}

	return 0, ""
}

// extractHnswParams returns the collection's HNSW m and ef_construct.
func extractHnswParams(info *qdrant.CollectionInfo) (m, efConstruct uint64) {
	if info == nil || info.Config == nil || info.Config.HnswConfig == nil {
		return 0, 0
	}
	return derefUint64(info.Config.HnswConfig.M), derefUint64(info.Config.HnswConfig.EfConstruct)
}

// derefUint64 safely dereferences a *uint64 pointer.
// If the pointer is nil, it returns 0 instead of panicking.
func derefUint64(v *uint64) uint64 {
	if v != nil {
		return *v
	}
	return 0
}
