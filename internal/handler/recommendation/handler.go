// Package recommendation implements the recommendation function: validate
// the request, instruct the generative-text model, parse its reply into a
// fixed-field record, persist the interaction to the caller's feed and
// answer with the record plus the raw model text.
package recommendation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	gpt "booknest/internal/gpt"
	gptutils "booknest/internal/gpt/utils"
	"booknest/internal/model"
	feedRepository "booknest/internal/repository/feed"

	"github.com/rs/zerolog/log"
)

// Completer is the single-turn, non-streaming completion call.
type Completer interface {
	Complete(ctx context.Context, instruction string) (string, error)
}

// TokenVerifier checks a bearer ID token and returns the uid it belongs to.
// The Firebase auth client is adapted onto this in main.
type TokenVerifier interface {
	VerifyUid(ctx context.Context, idToken string) (string, error)
}

type response struct {
	Success        bool                        `json:"success"`
	Recommendation *model.ParsedRecommendation `json:"recommendation,omitempty"`
	RawAIResponse  string                      `json:"rawAIResponse,omitempty"`
	Message        string                      `json:"message,omitempty"`
	Error          string                      `json:"error,omitempty"`
}

type Handler struct {
	ai           Completer
	feedRepo     feedRepository.IRepository
	tokenizer    *gptutils.Tokenizer
	tokenBudget  int
	verifier     TokenVerifier
	authRequired bool
}

func New(ai Completer, feedRepo feedRepository.IRepository, tokenizer *gptutils.Tokenizer, tokenBudget int) *Handler {
	return &Handler{
		ai:          ai,
		feedRepo:    feedRepo,
		tokenizer:   tokenizer,
		tokenBudget: tokenBudget,
	}
}

// WithTokenVerifier enables bearer-token checking. When required is false a
// present token is still verified; only its absence is tolerated.
func (h *Handler) WithTokenVerifier(verifier TokenVerifier, required bool) *Handler {
	h.verifier = verifier
	h.authRequired = required
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {

	if r.Method != http.MethodPost {
		http.Error(w, msgMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	req := model.RecommendationRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Prompt == "" || req.UserId == "" || req.AppId == "" {
		http.Error(w, msgBadRequest, http.StatusBadRequest)
		return
	}

	if !h.authorized(w, r, req.UserId) {
		return
	}

	ctx := r.Context()
	log.Info().Msgf("generating recommendation for user %s", req.UserId)

	prompt := h.boundPrompt(req.Prompt)
	reply, err := h.ai.Complete(ctx, fmt.Sprintf(RECOMMENDATION_INSTRUCTION, prompt))
	if err != nil {
		log.Error().Err(err).Msg("recommendation: generative call failed")
		writeJSON(w, http.StatusInternalServerError, response{
			Success: false,
			Message: msgUpstreamFailure,
			Error:   err.Error(),
		})
		return
	}

	parsed := parseReply(reply)

	// The response is only sent after the feed write resolves; a failed
	// write is indistinguishable from an AI failure to the caller.
	if err := h.feedRepo.Append(ctx, req.AppId, req.UserId, model.FeedEntry{
		Type:       feedRepository.TypeAIRecommendation,
		UserPrompt: req.Prompt,
		AiResponse: parsed,
	}); err != nil {
		log.Error().Err(err).Msg("recommendation: feed write failed")
		writeJSON(w, http.StatusInternalServerError, response{
			Success: false,
			Message: msgUpstreamFailure,
			Error:   err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, response{
		Success:        true,
		Recommendation: &parsed,
		RawAIResponse:  reply,
	})
}

// authorized applies the optional bearer-token check. It writes the error
// response itself and reports whether handling may continue.
func (h *Handler) authorized(w http.ResponseWriter, r *http.Request, userId string) bool {
	if h.verifier == nil {
		return true
	}

	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		if h.authRequired {
			http.Error(w, msgNoToken, http.StatusUnauthorized)
			return false
		}
		return true
	}

	uid, err := h.verifier.VerifyUid(r.Context(), strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		http.Error(w, msgInvalidToken, http.StatusUnauthorized)
		return false
	}
	if uid != userId {
		http.Error(w, msgUidMismatch, http.StatusForbidden)
		return false
	}

	return true
}

// boundPrompt keeps the user prompt inside the configured token budget so a
// hostile or runaway prompt cannot blow up the model input.
func (h *Handler) boundPrompt(prompt string) string {
	if h.tokenizer == nil || h.tokenBudget <= 0 {
		return prompt
	}

	if count := h.tokenizer.CountTokens(prompt); count > h.tokenBudget {
		log.Warn().Msgf("recommendation: prompt of %d tokens truncated to %d", count, h.tokenBudget)
		return h.tokenizer.Truncate(prompt, h.tokenBudget)
	}
	return prompt
}

func writeJSON(w http.ResponseWriter, status int, body response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("recommendation: failed to encode response")
	}
}

// NewCompleter adapts the gpt client factory onto Completer, cloning a fresh
// client per request as the factory intends.
func NewCompleter(factory gpt.ClientFactory) Completer {
	return completer{factory: factory}
}

type completer struct {
	factory gpt.ClientFactory
}

func (c completer) Complete(ctx context.Context, instruction string) (string, error) {
	client, err := c.factory.Client()
	if err != nil {
		return "", err
	}
	return client.Complete(ctx, instruction)
}
