package handlers

import (
	"fmt"
	"io"

	"github.com/914h/BabImmob-sub000/internal/adapters/api"
	"github.com/914h/BabImmob-sub000/internal/adapters/http/forms"
	"github.com/914h/BabImmob-sub000/internal/adapters/http/views"
	"github.com/914h/BabImmob-sub000/internal/core/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ContractHandler handles the contract tables, the owner decisions, the client
// requests and the PDF download
type ContractHandler struct {
	api *api.Client
}

// NewContractHandler creates a new contract handler
func NewContractHandler(client *api.Client) *ContractHandler {
	return &ContractHandler{api: client}
}

// maxPDFBytes bounds the contract document relayed to the browser
const maxPDFBytes = 20 << 20

// contractTable lists contracts with the actions available to viewer
func contractTable(title string, contracts []domain.Contract, viewer domain.Role) views.Table {
	t := views.Table{
		Title:        title,
		Columns:      []string{"Property", "Client", "Owner", "Type", "Period", "Amount", "Status"},
		StatusColumn: "Status",
		Empty:        "No contracts yet.",
		Rows:         make([]views.Row, 0, len(contracts)),
	}
	for _, ct := range contracts {
		period := ct.StartDate
		if ct.EndDate != "" {
			period += " → " + ct.EndDate
		}
		row := views.Row{
			ID: ct.ID,
			Cells: []string{
				propertyName(ct.Property, ct.PropertyID),
				userName(ct.Client, ct.ClientID),
				userName(ct.Owner, ct.OwnerID),
				views.Label(string(ct.Type)),
				period,
				views.Money(ct.Amount) + " MAD",
				string(ct.Status),
			},
		}
		if viewer == domain.RoleOwner && ct.Pending() {
			row.Actions = append(row.Actions,
				views.Action{Kind: views.ActionApprove, Label: "Approve", URL: fmt.Sprintf("/owner/contracts/%d/approve", ct.ID)},
				views.Action{Kind: views.ActionReject, Label: "Reject", URL: fmt.Sprintf("/owner/contracts/%d/reject", ct.ID), Confirm: "Reject this contract request?"},
			)
		}
		row.Actions = append(row.Actions, views.Action{Kind: views.ActionPrint, Label: "Print", URL: fmt.Sprintf("/contracts/%d/pdf", ct.ID)})
		t.Rows = append(t.Rows, row)
	}
	return t
}

// OwnerIndex lists the contracts on the owner's properties
func (h *ContractHandler) OwnerIndex(c *fiber.Ctx) error {
	contracts, err := servicesFor(c, h.api).Contracts.Mine().All(c.UserContext(), nil)
	if err != nil {
		return failed(c, err, "/owner/dashboard", "Unable to load contracts")
	}
	return render(c, fiber.StatusOK, views.PageTable, "Contracts", contractTable("Contracts", contracts, domain.RoleOwner))
}

// ClientIndex lists the client's contracts
func (h *ContractHandler) ClientIndex(c *fiber.Ctx) error {
	contracts, err := servicesFor(c, h.api).Contracts.Mine().All(c.UserContext(), nil)
	if err != nil {
		return failed(c, err, "/client/dashboard", "Unable to load contracts")
	}
	return render(c, fiber.StatusOK, views.PageTable, "My contracts", contractTable("My contracts", contracts, domain.RoleClient))
}

// AdminIndex lists every contract
func (h *ContractHandler) AdminIndex(c *fiber.Ctx) error {
	contracts, err := servicesFor(c, h.api).Contracts.Admin().All(c.UserContext(), nil)
	if err != nil {
		return failed(c, err, "/admin/dashboard", "Unable to load contracts")
	}
	return render(c, fiber.StatusOK, views.PageTable, "Contracts", contractTable("Contracts", contracts, domain.RoleAdmin))
}

// Approve accepts a pending contract request
func (h *ContractHandler) Approve(c *fiber.Ctx) error {
	return h.decide(c, true)
}

// Reject refuses a pending contract request
func (h *ContractHandler) Reject(c *fiber.Ctx) error {
	return h.decide(c, false)
}

func (h *ContractHandler) decide(c *fiber.Ctx, approve bool) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	contracts := servicesFor(c, h.api).Contracts
	var ct *domain.Contract
	message := "Contract approved"
	if approve {
		ct, err = contracts.Approve(c.UserContext(), id)
	} else {
		ct, err = contracts.Reject(c.UserContext(), id)
		message = "Contract rejected"
	}
	if err != nil {
		return failed(c, err, "/owner/contracts", "Unable to update the contract")
	}

	status := domain.ContractApproved
	if !approve {
		status = domain.ContractRejected
	}
	if ct != nil && ct.Status != "" {
		status = ct.Status
	}
	return done(c, "/owner/contracts", message, fiber.Map{"id": id, "status": status})
}

// Request submits a client's contract request from the property page
func (h *ContractHandler) Request(c *fiber.Ctx) error {
	var f forms.ContractForm
	if err := c.BodyParser(&f); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if errs := f.Check(); errs != nil {
		return renderPropertyDetail(c, h.api, f.PropertyID, &f, errs, nil, nil)
	}
	payload, err := f.Payload()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid contract request")
	}

	if _, err := servicesFor(c, h.api).Contracts.Request(c.UserContext(), payload); err != nil {
		if errs := apiFieldErrors(err); errs != nil {
			return renderPropertyDetail(c, h.api, f.PropertyID, &f, errs, nil, nil)
		}
		return failed(c, err, "/client/properties/"+f.PropertyID, "Unable to send the contract request")
	}
	return done(c, "/client/contracts", "Contract request sent", nil)
}

// PDF relays the contract document generated by the API. The body is read before
// the handler returns because the request context ends with it.
func (h *ContractHandler) PDF(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	resp, err := servicesFor(c, h.api).Contracts.PDF(c.UserContext(), id)
	if err != nil {
		return failed(c, err, "/", "Unable to download the contract")
	}
	defer resp.Body.Close()

	doc, err := io.ReadAll(io.LimitReader(resp.Body, maxPDFBytes))
	if err != nil {
		return failed(c, err, "/", "Unable to download the contract")
	}

	contentType := resp.Header.Get(fiber.HeaderContentType)
	if contentType == "" {
		contentType = "application/pdf"
	}
	c.Set(fiber.HeaderContentType, contentType)
	if cd := resp.Header.Get(fiber.HeaderContentDisposition); cd != "" {
		c.Set(fiber.HeaderContentDisposition, cd)
	} else {
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="contract-%d.pdf"`, id))
	}

	log.Debug().Uint("contract_id", id).Int("bytes", len(doc)).Msg("📄 Relaying contract PDF")
	return c.Send(doc)
}
