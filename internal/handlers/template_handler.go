package handlers

import (
	"fmt"
	"html/template"

	"ai-forum-web/internal/config"
	"ai-forum-web/internal/service"
	"ai-forum-web/pkg/validator"
)

type TemplateHandler struct {
	toxicityService *service.ToxicityService
	templates       *template.Template
	config          *config.Config
}

func NewTemplateHandler(toxicityService *service.ToxicityService, cfg *config.Config, templates *template.Template) (*TemplateHandler, error) {
	if templates == nil {
		return nil, fmt.Errorf("templates are required")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	validator.Init()

	return &TemplateHandler{
		toxicityService: toxicityService,
		templates:       templates,
		config:          cfg,
	}, nil
}
