package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/BEAUVILLE/abos/config"
	"github.com/BEAUVILLE/abos/internal/validate"
	"github.com/BEAUVILLE/abos/internal/workflow"
	"github.com/BEAUVILLE/abos/models"
	"go.uber.org/zap"
)

// proof images cap at 8 MiB; leave headroom for the form fields.
const maxMultipartMemory = 16 << 20

// Submitter runs one submission attempt end to end.
type Submitter interface {
	Submit(ctx context.Context, order *models.Order, artifact *models.ProofArtifact) (*workflow.Receipt, error)
}

type Handler struct {
	Config *config.Config
	Flow   Submitter
	Logger *zap.SugaredLogger
}

type submitResponse struct {
	OK        bool   `json:"ok"`
	ID        string `json:"id,omitempty"`
	Reference string `json:"reference,omitempty"`
	Redirect  string `json:"redirect,omitempty"`
	Field     string `json:"field,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Submit accepts the multipart payment-proof form and answers with the
// wait-page redirect on success, or with the failed field/reason so the
// form can direct the payer's attention.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		h.Logger.Debugw("malformed multipart form", "error", err)
		h.writeJSON(w, http.StatusBadRequest, submitResponse{Error: "malformed form data"})
		return
	}

	order := orderFromForm(r)
	artifact, err := artifactFromForm(r)
	if err != nil {
		h.Logger.Errorw("failed to read proof file", "error", err)
		h.writeJSON(w, http.StatusBadRequest, submitResponse{Field: string(validate.FieldProof), Error: "failed to read proof file"})
		return
	}

	receipt, err := h.Flow.Submit(r.Context(), order, artifact)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, submitResponse{
		OK:        true,
		ID:        receipt.Record.ID,
		Reference: receipt.Record.Reference,
		Redirect:  receipt.RedirectURL,
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) writeFailure(w http.ResponseWriter, err error) {
	var werr *workflow.Error
	if !errors.As(err, &werr) {
		h.Logger.Errorw("submission failed", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, submitResponse{Error: "internal server error"})
		return
	}

	switch werr.Kind {
	case workflow.KindValidation:
		h.writeJSON(w, http.StatusBadRequest, submitResponse{
			Field: string(werr.Field),
			Error: werr.Err.Error(),
		})
	case workflow.KindBusy:
		h.writeJSON(w, http.StatusConflict, submitResponse{Error: "a submission is already in progress"})
	case workflow.KindConfig:
		h.Logger.Errorw("submission refused, service misconfigured", "error", werr.Err)
		h.writeJSON(w, http.StatusInternalServerError, submitResponse{Error: "service misconfigured"})
	case workflow.KindUpload, workflow.KindRegistration:
		h.Logger.Errorw("submission failed", "kind", werr.Kind, "error", werr.Err)
		h.writeJSON(w, http.StatusBadGateway, submitResponse{Error: werr.Err.Error()})
	default:
		h.Logger.Errorw("submission failed", "kind", werr.Kind, "error", werr.Err)
		h.writeJSON(w, http.StatusInternalServerError, submitResponse{Error: "internal server error"})
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, resp submitResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.Logger.Errorw("failed to write response", "error", err)
	}
}

func orderFromForm(r *http.Request) *models.Order {
	return &models.Order{
		Module:      strings.TrimSpace(r.FormValue("module")),
		Plan:        strings.TrimSpace(r.FormValue("plan")),
		Amount:      amountFromForm(r.FormValue("amount")),
		Phone:       r.FormValue("phone"),
		Slug:        r.FormValue("slug"),
		City:        strings.TrimSpace(r.FormValue("city")),
		ProName:     strings.TrimSpace(r.FormValue("pro_name")),
		BoostCode:   strings.TrimSpace(r.FormValue("boost_code")),
		BoostAmount: boostAmountFromForm(r.FormValue("boost_amount")),
		Reference:   strings.TrimSpace(r.FormValue("reference")),
	}
}

// amountFromForm tolerates formatted input ("12 900", "12.900 F") by
// keeping only the digits, like the payment form does.
func amountFromForm(raw string) int64 {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func boostAmountFromForm(raw string) float64 {
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return n
}

// artifactFromForm extracts the proof file. A missing file is not an
// error here; the validator reports it with the right field reference.
func artifactFromForm(r *http.Request) (*models.ProofArtifact, error) {
	file, header, err := r.FormFile("proof")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	// Read at most one byte past the cap; the declared size drives the
	// size rule either way.
	content, err := io.ReadAll(io.LimitReader(file, validate.MaxProofSize+1))
	if err != nil {
		return nil, err
	}

	return &models.ProofArtifact{
		Content:     content,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Filename:    header.Filename,
	}, nil
}
