package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wonny/factscore/internal/contracts"
	"github.com/wonny/factscore/internal/scorecache"
	"github.com/wonny/factscore/internal/scoreconfig"
	"github.com/wonny/factscore/internal/scoring"
	"github.com/wonny/factscore/pkg/logger"
)

// CompanyHandler serves single-company scorecards
// ⭐ SSOT: per-company scoring endpoints live here
type CompanyHandler struct {
	scorer    scorecache.Scorer
	companies contracts.CompanyRepository
	rules     *scoreconfig.Config
	rulesHash string
	logger    *logger.Logger
}

// NewCompanyHandler creates a new company handler. companies may be nil, in
// which case unknown ids surface as missing facts.
func NewCompanyHandler(
	scorer scorecache.Scorer,
	companies contracts.CompanyRepository,
	rules *scoreconfig.Config,
	rulesHash string,
	log *logger.Logger,
) *CompanyHandler {
	return &CompanyHandler{
		scorer:    scorer,
		companies: companies,
		rules:     rules,
		rulesHash: rulesHash,
		logger:    log,
	}
}

// ListCompanies returns every scorable company
// GET /api/companies
func (h *CompanyHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	if h.companies == nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": []contracts.Company{}})
		return
	}

	companies, err := h.companies.ListCompanies(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list companies")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve companies")
		return
	}
	if companies == nil {
		companies = []contracts.Company{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    companies,
	})
}

// GetValue returns the value scorecard of one company
// GET /api/companies/{id}/value?date=2024-06-30
func (h *CompanyHandler) GetValue(w http.ResponseWriter, r *http.Request) {
	h.serveScore(w, r, contracts.KindValue)
}

// GetMoat returns the moat scorecard of one company
// GET /api/companies/{id}/moat?date=2024-06-30
func (h *CompanyHandler) GetMoat(w http.ResponseWriter, r *http.Request) {
	h.serveScore(w, r, contracts.KindMoat)
}

func (h *CompanyHandler) serveScore(w http.ResponseWriter, r *http.Request, kind contracts.ScoreKind) {
	ctx := r.Context()

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "company id must be a positive integer")
		return
	}

	asOf, err := parseAsOf(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid 'date' format (expected YYYY-MM-DD)")
		return
	}

	if h.companies != nil {
		company, err := h.companies.GetCompany(ctx, id)
		if err != nil {
			h.logger.WithError(err).WithField("company_id", id).Error("Failed to get company")
			respondError(w, http.StatusInternalServerError, "Failed to retrieve company")
			return
		}
		if company == nil {
			respondError(w, http.StatusNotFound, "company not found")
			return
		}
	}

	var score interface{}
	switch kind {
	case contracts.KindValue:
		score, err = h.scorer.ScoreValue(ctx, id, asOf)
	case contracts.KindMoat:
		score, err = h.scorer.ScoreMoat(ctx, id, asOf)
	}
	if errors.Is(err, scoring.ErrNoFiscalYears) {
		respondError(w, http.StatusNotFound, "no fiscal-year facts for company")
		return
	}
	if err != nil {
		h.logger.WithError(err).WithFields(map[string]interface{}{
			"company_id": id,
			"kind":       kind,
		}).Error("Failed to score company")
		respondError(w, http.StatusInternalServerError, "Failed to compute scorecard")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"as_of":   asOf.Format(dateLayout),
		"data":    score,
	})
}

// GetThresholds returns the active rule set and its hash
// GET /api/thresholds
func (h *CompanyHandler) GetThresholds(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"hash":    h.rulesHash,
		"data":    h.rules,
	})
}
