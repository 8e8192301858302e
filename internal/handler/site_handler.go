package handler

import (
	"errors"
	"net/http"

	"go-agency-site/internal/logger"
	"go-agency-site/internal/middleware"
	"go-agency-site/internal/service"
	"go-agency-site/internal/session"
	"go-agency-site/internal/view"

	"github.com/go-chi/chi/v5"
)

// ServicePage is the static copy for one service offering.
type ServicePage struct {
	Slug     string
	Name     string
	Tagline  string
	Features []string
}

// servicePages enumerates the offerings reachable under /services/. An
// unknown name falls back to the home page, matching the router's
// everything-else-is-home rule.
var servicePages = []ServicePage{
	{
		Slug:    "ai-automation",
		Name:    "AI Automation",
		Tagline: "Automate lead follow-up, reporting, and campaign optimization.",
		Features: []string{
			"Automated lead routing and follow-up sequences",
			"AI-assisted ad copy and creative testing",
			"Always-on reporting dashboards",
		},
	},
	{
		Slug:    "meta-ads",
		Name:    "Meta Ads",
		Tagline: "Full-funnel Facebook and Instagram campaigns that convert.",
		Features: []string{
			"Audience research and lookalike modelling",
			"Creative production and split testing",
			"Weekly optimization and transparent reporting",
		},
	},
	{
		Slug:    "google-ads",
		Name:    "Google Ads",
		Tagline: "Search, display, and shopping campaigns tuned for ROI.",
		Features: []string{
			"Keyword and competitor research",
			"Landing page conversion audits",
			"Negative keyword and bid management",
		},
	},
	{
		Slug:    "seo",
		Name:    "SEO Services",
		Tagline: "Sustainable organic growth through technical and content SEO.",
		Features: []string{
			"Technical site audits and fixes",
			"Content strategy and on-page optimization",
			"Authority building and digital PR",
		},
	},
	{
		Slug:    "website-design",
		Name:    "Website Design",
		Tagline: "Fast, conversion-focused websites built to grow with you.",
		Features: []string{
			"Conversion-first design and copy",
			"Performance and accessibility budgets",
			"Analytics and A/B testing baked in",
		},
	},
}

// contactServices is the option list for the contact form's service selector.
var contactServices = []string{
	"AI Automation",
	"Meta Ads",
	"Google Ads",
	"SEO Services",
	"Website Design",
	"Full Marketing Package",
	"Other",
}

// SiteHandler serves the static marketing pages and the contact form.
type SiteHandler struct {
	contacts *service.ContactService
	view     *view.View
	sm       session.Manager
	log      logger.Logger
}

// NewSiteHandler creates a new SiteHandler.
func NewSiteHandler(contacts *service.ContactService, v *view.View, sm session.Manager, log logger.Logger) *SiteHandler {
	return &SiteHandler{contacts: contacts, view: v, sm: sm, log: log}
}

func (h *SiteHandler) homeHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.renderStatic(w, r, "home.html", map[string]interface{}{
		"Services": servicePages,
	})
}

func (h *SiteHandler) aboutHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.renderStatic(w, r, "about.html", nil)
}

func (h *SiteHandler) pricingHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.renderStatic(w, r, "pricing.html", nil)
}

// serviceHandler renders one service page; unknown service names resolve to
// the home page rather than a 404.
func (h *SiteHandler) serviceHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	name := chi.URLParam(r, "name")
	for _, sp := range servicePages {
		if sp.Slug == name {
			return h.renderStatic(w, r, "service.html", map[string]interface{}{
				"Service": sp,
			})
		}
	}
	http.Redirect(w, r, "/", http.StatusFound)
	return nil
}

func (h *SiteHandler) contactFormHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.renderStatic(w, r, "contact.html", map[string]interface{}{
		"Services":  contactServices,
		"Submitted": h.sm.PopString(r.Context(), session.KeyFlash) != "",
	})
}

// contactSubmitHandler stores a contact submission. Validation failures
// re-render the form inline with the visitor's input preserved; a store
// failure keeps the input too and shows a retryable error.
func (h *SiteHandler) contactSubmitHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	name := r.FormValue("name")
	email := r.FormValue("email")
	phone := r.FormValue("phone")
	svc := r.FormValue("service")
	message := r.FormValue("message")

	err := h.contacts.Submit(r.Context(), name, email, phone, svc, message)
	if err != nil {
		form := map[string]interface{}{
			"Name": name, "Email": email, "Phone": phone,
			"Service": svc, "Message": message,
		}
		pageData := map[string]interface{}{
			"Services": contactServices,
			"Form":     form,
		}
		var verrs service.ValidationErrors
		if errors.As(err, &verrs) {
			pageData["Errors"] = verrs
			w.WriteHeader(http.StatusUnprocessableEntity)
		} else {
			h.log.Error(err, "Failed to store contact submission")
			pageData["SubmitError"] = "Something went wrong sending your message. Please try again."
			w.WriteHeader(http.StatusInternalServerError)
		}
		return h.renderStatic(w, r, "contact.html", pageData)
	}

	h.sm.Put(r.Context(), session.KeyFlash, "Thanks! We'll get back to you within 24 hours.")
	http.Redirect(w, r, "/contact", http.StatusFound)
	return nil
}

func (h *SiteHandler) renderStatic(w http.ResponseWriter, r *http.Request, name string, pageData map[string]interface{}) *middleware.AppError {
	if pageData == nil {
		pageData = map[string]interface{}{}
	}
	pageData["User"] = middleware.GetUserInfo(r.Context())
	if err := h.view.Render(w, r, name, pageData); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render page", Code: http.StatusInternalServerError}
	}
	return nil
}
