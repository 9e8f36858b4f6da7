package reward

import (
	"context"
	"net/http"

	"github.com/frahmantamala/task-gamification/internal"
	"github.com/frahmantamala/task-gamification/internal/transport"
)

type ServiceAPI interface {
	ListRewards(ctx context.Context) ([]*Reward, error)
	Redeem(ctx context.Context, rewardID, userID int64) (*RedeemResult, error)
	History(ctx context.Context, userID int64) ([]*Redemption, error)
	CreateReward(ctx context.Context, dto CreateRewardDTO) (*Reward, error)
	SetAvailability(ctx context.Context, id int64, dto AvailabilityDTO) (*Reward, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) GetRewards(w http.ResponseWriter, r *http.Request) {
	rewards, err := h.Service.ListRewards(r.Context())
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	if rewards == nil {
		rewards = []*Reward{}
	}

	h.WriteJSON(w, http.StatusOK, RewardsResponse{Rewards: rewards})
}

func (h *Handler) RedeemReward(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == 0 {
		h.WriteAppError(w, r, internal.ErrAuthenticationRequired)
		return
	}

	rewardID, err := h.PathID(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	result, err := h.Service.Redeem(r.Context(), rewardID, userID)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) GetRedemptions(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == 0 {
		h.WriteAppError(w, r, internal.ErrAuthenticationRequired)
		return
	}

	redemptions, err := h.Service.History(r.Context(), userID)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	if redemptions == nil {
		redemptions = []*Redemption{}
	}

	h.WriteJSON(w, http.StatusOK, RedemptionsResponse{Redemptions: redemptions})
}

// CreateReward handles POST /admin/rewards
func (h *Handler) CreateReward(w http.ResponseWriter, r *http.Request) {
	var dto CreateRewardDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	created, err := h.Service.CreateReward(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, created)
}

// UpdateAvailability handles PATCH /admin/rewards/{id}
func (h *Handler) UpdateAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	var dto AvailabilityDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	updated, err := h.Service.SetAvailability(r.Context(), id, dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, updated)
}
