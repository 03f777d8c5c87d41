package dto

type CollaborativeRecommendRequest struct {
	QueryURIs []string `query:"query_uris" validate:"required,min=1"`
	K         int      `query:"k" validate:"gte=1,lte=1000"`
}

type ClusteringRecommendRequest struct {
	PlaylistName string `query:"playlist_name" validate:"required"`
	K            int    `query:"k" validate:"gte=1,lte=1000"`
	NNeighbors   int    `query:"n_neighbors" validate:"gte=1,lte=100"`
}

type HybridRecommendRequest struct {
	QueryURIs    []string `query:"query_uris"`
	PlaylistName string   `query:"playlist_name"`
	K            int      `query:"k" validate:"gte=1,lte=1000"`
	NNeighbors   int      `query:"n_neighbors" validate:"gte=1,lte=100"`
}

type RecommendResponse struct {
	Tracks []string `json:"tracks"`
	Count  int      `json:"count"`
}
