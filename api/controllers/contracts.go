package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/adrianfloca/marketforge-backend/api/responses"
	"github.com/adrianfloca/marketforge-backend/api/validators"
	"github.com/adrianfloca/marketforge-backend/internal/contracts"
	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"github.com/adrianfloca/marketforge-backend/pkg/enums"
	pkgerrors "github.com/adrianfloca/marketforge-backend/pkg/errors"
	"github.com/adrianfloca/marketforge-backend/pkg/logger"
)

// contractRepoErr adds the state machine mapping on top of storeErr for the
// raw contract wire handlers.
func contractRepoErr(err error, notFoundMsg string) error {
	if errors.Is(err, contracts.ErrNotActive) {
		return pkgerrors.Wrap(pkgerrors.CodeStateConflict, err, "contract is not active")
	}
	return storeErr(err, notFoundMsg)
}

// ContractOpen starts a new contract chain for an order. Content falls back
// to the predefined template when one is referenced.
func ContractOpen(svc contracts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		orderID, err := pathID(r, "orderID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload struct {
			Content              string    `json:"content,omitempty"`
			PredefinedContractID *int64    `json:"predefinedContractId,omitempty"`
			StartDate            time.Time `json:"startDate" validate:"required"`
			EndDate              time.Time `json:"endDate" validate:"required"`
		}
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		contract, err := svc.CreateContract(ctx, contracts.CreateContractParams{
			OrderID:              orderID,
			Content:              payload.Content,
			PredefinedContractID: payload.PredefinedContractID,
			StartDate:            payload.StartDate,
			EndDate:              payload.EndDate,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, contract)
	}
}

// ContractCreate stores a contract row as-is; wire surface for the remote
// repository.
func ContractCreate(repo contracts.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var contract models.Contract
		if err := validators.DecodeJSONBody(r, &contract); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := repo.Create(ctx, &contract); err != nil {
			responses.WriteError(ctx, logg, w, contractRepoErr(err, "contract not found"))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, contract)
	}
}

func ContractDetail(svc contracts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "contractID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		contract, err := svc.GetContract(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, contract)
	}
}

// ContractRenewRaw links a pre-built successor atomically; wire surface for
// the remote repository.
func ContractRenewRaw(repo contracts.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		predecessorID, err := pathID(r, "contractID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var successor models.Contract
		if err := validators.DecodeJSONBody(r, &successor); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := repo.Renew(ctx, predecessorID, &successor); err != nil {
			responses.WriteError(ctx, logg, w, contractRepoErr(err, "contract not found"))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, successor)
	}
}

// ContractRenew rolls the chain forward with a fresh validity window and
// notifies the buyer.
func ContractRenew(svc contracts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "contractID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload struct {
			StartDate time.Time `json:"startDate" validate:"required"`
			EndDate   time.Time `json:"endDate" validate:"required"`
		}
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		successor, err := svc.RenewContract(ctx, contracts.RenewContractParams{
			ContractID: id,
			StartDate:  payload.StartDate,
			EndDate:    payload.EndDate,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, successor)
	}
}

func ContractExpire(svc contracts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "contractID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.ExpireContract(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"expired": true})
	}
}

// ContractSetStatus applies a guarded status transition; wire surface for
// the remote repository.
func ContractSetStatus(repo contracts.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "contractID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload struct {
			From enums.ContractStatus `json:"from" validate:"required"`
			To   enums.ContractStatus `json:"to" validate:"required"`
		}
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := repo.UpdateStatus(ctx, id, payload.From, payload.To); err != nil {
			responses.WriteError(ctx, logg, w, contractRepoErr(err, "contract not found"))
			return
		}
		responses.WriteSuccess(w, map[string]bool{"updated": true})
	}
}

func ContractChain(svc contracts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "contractID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		chain, err := svc.ContractChain(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, chain)
	}
}

func ContractListByOrder(svc contracts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		orderID, err := pathID(r, "orderID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		contractRows, err := svc.ListByOrder(ctx, orderID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, contractRows)
	}
}

func PredefinedContractDetail(svc contracts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "templateID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		template, err := svc.GetPredefined(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, template)
	}
}

func PredefinedContractList(svc contracts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		templates, err := svc.ListPredefined(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, templates)
	}
}

func ContractAttachPDF(svc contracts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		contractID, err := pathID(r, "contractID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload struct {
			ContractID int64  `json:"contractId,omitempty"`
			File       []byte `json:"file" validate:"required"`
		}
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		pdf, err := svc.AttachPDF(ctx, contractID, payload.File)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, pdf)
	}
}

// ContractPDFDetail returns the stored document. The model hides the bytes
// from JSON, so the wire shape is explicit.
func ContractPDFDetail(svc contracts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "pdfID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		pdf, err := svc.GetPDF(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, struct {
			ID         int64  `json:"id"`
			ContractID int64  `json:"contractId"`
			File       []byte `json:"file"`
		}{ID: pdf.ID, ContractID: pdf.ContractID, File: pdf.File})
	}
}
