package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/readingroom/bookclub/internal/popup"
)

func (s *Server) registerPopupRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "placePopup",
		Method:      http.MethodPost,
		Path:        "/api/v1/popup/placement",
		Summary:     "Place ratings popup",
		Description: "Computes where the ratings popup goes for a trigger in a viewport",
		Tags:        []string{"Popup"},
	}, s.handlePlacePopup)
}

// PlacementRequest describes the trigger, the popup, and the viewport.
type PlacementRequest struct {
	Trigger  popup.Rect     `json:"trigger" doc:"Trigger bounding box relative to the viewport"`
	Popup    popup.Size     `json:"popup" doc:"Unconstrained popup size"`
	Viewport popup.Viewport `json:"viewport"`
}

// PlacementInput wraps the request body.
type PlacementInput struct {
	Body PlacementRequest
}

// PlacementOutput is the absolute document position for the popup.
type PlacementOutput struct {
	Body popup.Point
}

func (s *Server) handlePlacePopup(_ context.Context, input *PlacementInput) (*PlacementOutput, error) {
	req := input.Body
	return &PlacementOutput{Body: popup.Place(req.Trigger, req.Popup, req.Viewport)}, nil
}
