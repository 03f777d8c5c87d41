package controller

import (
	"playlist-recommender-be/internal/dto"
	"playlist-recommender-be/internal/pkg/apperrors"
	"playlist-recommender-be/internal/pkg/serverutils"
	"playlist-recommender-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultQuota      = 10
	defaultNNeighbors = 5
)

type IRecommendController interface {
	RegisterRoutes(r fiber.Router)
	Collaborative(ctx *fiber.Ctx) error
	Clustering(ctx *fiber.Ctx) error
	Hybrid(ctx *fiber.Ctx) error
}

type recommendController struct {
	collaborativeService service.ICollaborativeService
	clusteringService    service.IClusteringService
	hybridService        service.IHybridService
}

func NewRecommendController(
	collaborativeService service.ICollaborativeService,
	clusteringService service.IClusteringService,
	hybridService service.IHybridService,
) IRecommendController {
	return &recommendController{
		collaborativeService: collaborativeService,
		clusteringService:    clusteringService,
		hybridService:        hybridService,
	}
}

func (c *recommendController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/recommend/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("collaborative", c.Collaborative)
	h.Get("clustering", c.Clustering)
	h.Get("hybrid", c.Hybrid)
}

func (c *recommendController) Collaborative(ctx *fiber.Ctx) error {
	var req dto.CollaborativeRecommendRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if req.K == 0 {
		req.K = defaultQuota
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	if !hasNonEmpty(req.QueryURIs) {
		return apperrors.ErrEmptySeeds
	}

	tracks, err := c.collaborativeService.RecommendTracks(ctx.Context(), req.QueryURIs, req.K)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success recommend tracks", dto.RecommendResponse{
		Tracks: tracks,
		Count:  len(tracks),
	}))
}

func (c *recommendController) Clustering(ctx *fiber.Ctx) error {
	var req dto.ClusteringRecommendRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if req.K == 0 {
		req.K = defaultQuota
	}
	if req.NNeighbors == 0 {
		req.NNeighbors = defaultNNeighbors
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	tracks, err := c.clusteringService.RecommendTracks(ctx.Context(), req.PlaylistName, req.K, req.NNeighbors)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success recommend tracks", dto.RecommendResponse{
		Tracks: tracks,
		Count:  len(tracks),
	}))
}

func (c *recommendController) Hybrid(ctx *fiber.Ctx) error {
	var req dto.HybridRecommendRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if req.K == 0 {
		req.K = defaultQuota
	}
	if req.NNeighbors == 0 {
		req.NNeighbors = defaultNNeighbors
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	// An empty seed set is fine here (the clustering fallback covers it),
	// but a request with neither seeds nor a playlist name can match nothing.
	if !hasNonEmpty(req.QueryURIs) && req.PlaylistName == "" {
		return fiber.NewError(fiber.StatusBadRequest, "either query_uris or playlist_name is required")
	}

	tracks, err := c.hybridService.RecommendTracks(ctx.Context(), req.QueryURIs, req.PlaylistName, req.K, req.NNeighbors)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success recommend tracks", dto.RecommendResponse{
		Tracks: tracks,
		Count:  len(tracks),
	}))
}

func hasNonEmpty(uris []string) bool {
	for _, uri := range uris {
		if uri != "" {
			return true
		}
	}
	return false
}
