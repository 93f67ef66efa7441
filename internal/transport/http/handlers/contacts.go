package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arklim/contacts-service/internal/infra/validator"
	"github.com/arklim/contacts-service/internal/usecase"
)

// ContactsHandler exposes the contact CRUD endpoints.
type ContactsHandler struct {
	contacts  *usecase.ContactService
	validator *validator.ContactValidator
}

func NewContactsHandler(contacts *usecase.ContactService, v *validator.ContactValidator) *ContactsHandler {
	if v == nil {
		v = validator.NewContactValidator()
	}
	return &ContactsHandler{contacts: contacts, validator: v}
}

// RegisterRoutes binds the contact endpoints.
func (h *ContactsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.List)
	r.POST("", h.Create)
	r.GET("/:id", h.Get)
	r.PUT("/:id", h.Update)
	r.DELETE("/:id", h.Delete)
}

// List returns every stored contact without password material.
func (h *ContactsHandler) List(c *gin.Context) {
	contacts, err := h.contacts.Find(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	out := make([]ContactSummary, 0, len(contacts))
	for _, contact := range contacts {
		out = append(out, newContactSummary(contact))
	}

	c.JSON(http.StatusOK, out)
}

// Get returns a single contact by id.
func (h *ContactsHandler) Get(c *gin.Context) {
	contact, err := h.contacts.GetContact(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newContactSummary(*contact))
}

// Create validates the payload and stores a new contact. The schema is
// closed; unknown JSON keys are rejected.
func (h *ContactsHandler) Create(c *gin.Context) {
	params, ok := h.decodeAndValidate(c)
	if !ok {
		return
	}

	contact, err := h.contacts.AddContact(c.Request.Context(), params)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newContactSummary(*contact))
}

// Update overwrites the stored contact. The payload is validated with the
// same rules as creation.
func (h *ContactsHandler) Update(c *gin.Context) {
	params, ok := h.decodeAndValidate(c)
	if !ok {
		return
	}

	contact, err := h.contacts.UpdateContact(c.Request.Context(), c.Param("id"), params)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newContactSummary(*contact))
}

// Delete removes the contact. Deleting an unknown id still succeeds.
func (h *ContactsHandler) Delete(c *gin.Context) {
	if err := h.contacts.RemoveContact(c.Request.Context(), c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "contact deleted"})
}

func (h *ContactsHandler) decodeAndValidate(c *gin.Context) (usecase.AddContactParams, bool) {
	var payload validator.ContactPayload
	if err := validator.DecodeStrict(c.Request.Body, &payload); err != nil {
		respondWithError(c, err)
		return usecase.AddContactParams{}, false
	}

	validated, err := h.validator.Validate(payload)
	if err != nil {
		respondWithError(c, err)
		return usecase.AddContactParams{}, false
	}

	return usecase.AddContactParams{
		UserName: validated.UserName,
		Name:     validated.Name,
		Email:    validated.Email,
		Type:     validated.Type,
		DOB:      validated.DOB,
		Phone:    validated.Phone,
		Password: validated.Password,
	}, true
}
