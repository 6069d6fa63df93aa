package httpserver

import (
	"errors"
	"net/http"

	invoiceerrors "relish/contexts/billing/invoice-service/domain/errors"
	invoiceports "relish/contexts/billing/invoice-service/ports"
	invoicetransport "relish/contexts/billing/invoice-service/transport/http"
	"relish/internal/platform/httpserver/middleware"
)

func (s *Server) registerInvoiceRoutes() {
	s.protect("POST /api/invoices", func(w http.ResponseWriter, r *http.Request, _ middleware.Identity) error {
		var req invoicetransport.CreateInvoiceRequest
		if err := decodeJSON(r, &req); err != nil {
			writeBadRequest(w, "malformed invoice payload")
			return nil
		}
		resp, err := s.modules.Invoices.Handler.CreateInvoiceHandler(r.Context(), req)
		if err != nil {
			return s.invoiceError(w, err)
		}
		writeJSON(w, http.StatusCreated, resp)
		return nil
	})

	s.protect("GET /api/invoices", func(w http.ResponseWriter, r *http.Request, _ middleware.Identity) error {
		query := r.URL.Query()
		resp, err := s.modules.Invoices.Handler.ListInvoicesHandler(r.Context(), invoiceports.InvoiceFilter{
			OrgID:  query.Get("org"),
			Status: query.Get("status"),
		})
		if err != nil {
			return s.invoiceError(w, err)
		}
		writeJSON(w, http.StatusOK, resp)
		return nil
	})

	s.protect("GET /api/invoices/{id}", func(w http.ResponseWriter, r *http.Request, _ middleware.Identity) error {
		resp, err := s.modules.Invoices.Handler.GetInvoiceHandler(r.Context(), r.PathValue("id"))
		if err != nil {
			return s.invoiceError(w, err)
		}
		writeJSON(w, http.StatusOK, resp)
		return nil
	})

	s.protect("PUT /api/invoices/{id}", func(w http.ResponseWriter, r *http.Request, _ middleware.Identity) error {
		var req invoicetransport.UpdateInvoiceRequest
		if err := decodeJSON(r, &req); err != nil {
			writeBadRequest(w, "malformed invoice payload")
			return nil
		}
		resp, err := s.modules.Invoices.Handler.UpdateInvoiceHandler(r.Context(), r.PathValue("id"), req)
		if err != nil {
			return s.invoiceError(w, err)
		}
		writeJSON(w, http.StatusOK, resp)
		return nil
	})

	s.protect("POST /api/invoices/{id}/issue", func(w http.ResponseWriter, r *http.Request, _ middleware.Identity) error {
		resp, err := s.modules.Invoices.Handler.IssueInvoiceHandler(r.Context(), r.PathValue("id"))
		if err != nil {
			return s.invoiceError(w, err)
		}
		writeJSON(w, http.StatusOK, resp)
		return nil
	})

	s.protect("POST /api/invoices/{id}/pay", func(w http.ResponseWriter, r *http.Request, _ middleware.Identity) error {
		resp, err := s.modules.Invoices.Handler.MarkInvoicePaidHandler(r.Context(), r.PathValue("id"))
		if err != nil {
			return s.invoiceError(w, err)
		}
		writeJSON(w, http.StatusOK, resp)
		return nil
	})

	s.protect("POST /api/invoices/{id}/void", func(w http.ResponseWriter, r *http.Request, _ middleware.Identity) error {
		resp, err := s.modules.Invoices.Handler.VoidInvoiceHandler(r.Context(), r.PathValue("id"))
		if err != nil {
			return s.invoiceError(w, err)
		}
		writeJSON(w, http.StatusOK, resp)
		return nil
	})
}

func (s *Server) invoiceError(w http.ResponseWriter, err error) error {
	switch {
	case errors.Is(err, invoiceerrors.ErrInvoiceNotFound):
		writeError(w, http.StatusNotFound, "not_found", "invoice not found")
	case errors.Is(err, invoiceerrors.ErrInvalidInvoice):
		writeBadRequest(w, "invalid invoice input")
	case errors.Is(err, invoiceerrors.ErrInvalidInvoiceOp):
		writeError(w, http.StatusConflict, "invalid_status", "operation not allowed in current invoice status")
	default:
		return err
	}
	return nil
}
