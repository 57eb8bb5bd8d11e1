package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/adrianfloca/marketforge-backend/api/validators"
	"github.com/adrianfloca/marketforge-backend/pkg/db"
	pkgerrors "github.com/adrianfloca/marketforge-backend/pkg/errors"
)

func pathID(r *http.Request, param string) (int64, error) {
	return validators.ParsePathID(chi.URLParam(r, param))
}

// storeErr maps raw repository errors onto the taxonomy for handlers that
// talk to a Repository directly instead of going through a service.
func storeErr(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	if typed := pkgerrors.As(err); typed != nil {
		return err
	}
	if db.IsNotFound(err) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, notFoundMsg)
	}
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "resource already exists")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storage operation failed")
}
