package service

import (
	"context"
	"strings"
	"text/template"

	dom "hubplus/internal/domain"
	"hubplus/internal/repo"
	"hubplus/internal/utils"
)

type TemplateService struct {
	repo  repo.TemplateRepo
	audit AuditSink
}

func NewTemplateService(r repo.TemplateRepo, audit AuditSink) *TemplateService {
	return &TemplateService{repo: r, audit: orNop(audit)}
}

type TemplatePatch struct {
	Name    *string
	Subject *string
	Body    *string
}

// Rendered is a previewed template.
type Rendered struct {
	Subject string
	Body    string
}

func parse(name, text string) (*template.Template, error) {
	return template.New(name).Option("missingkey=error").Parse(text)
}

func validateTemplate(t dom.EmailTemplate) error {
	if t.Name == "" {
		return invalid("name", "must not be blank")
	}
	if _, err := parse("subject", t.Subject); err != nil {
		return invalid("subject", "%v", err)
	}
	if _, err := parse("body", t.Body); err != nil {
		return invalid("body", "%v", err)
	}
	return nil
}

func (s *TemplateService) Create(ctx context.Context, actor int64, name, subject, body string) (dom.EmailTemplate, error) {
	in := dom.EmailTemplate{Name: strings.TrimSpace(name), Subject: subject, Body: body}
	if err := validateTemplate(in); err != nil {
		return dom.EmailTemplate{}, err
	}
	out, err := s.repo.Create(ctx, in)
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.EmailTemplate{}, ErrConflict
		}
		return dom.EmailTemplate{}, err
	}
	s.audit.Record(ctx, event("email_template", out.ID, dom.ActionCreate, actor))
	return out, nil
}

func (s *TemplateService) List(ctx context.Context) ([]dom.EmailTemplate, error) {
	return s.repo.List(ctx)
}

func (s *TemplateService) GetByID(ctx context.Context, id int64) (dom.EmailTemplate, error) {
	t, err := s.repo.GetByID(ctx, id)
	return t, mapNoRows(err)
}

func (s *TemplateService) Update(ctx context.Context, actor, id int64, p TemplatePatch) (dom.EmailTemplate, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dom.EmailTemplate{}, mapNoRows(err)
	}
	patch := existing
	if p.Name != nil {
		patch.Name = strings.TrimSpace(*p.Name)
	}
	if p.Subject != nil {
		patch.Subject = *p.Subject
	}
	if p.Body != nil {
		patch.Body = *p.Body
	}
	if err := validateTemplate(patch); err != nil {
		return dom.EmailTemplate{}, err
	}
	out, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.EmailTemplate{}, ErrConflict
		}
		return dom.EmailTemplate{}, mapNoRows(err)
	}
	s.audit.Record(ctx, event("email_template", id, dom.ActionUpdate, actor))
	return out, nil
}

func (s *TemplateService) Delete(ctx context.Context, actor, id int64) error {
	ok, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	s.audit.Record(ctx, event("email_template", id, dom.ActionDelete, actor))
	return nil
}

func (s *TemplateService) Preview(ctx context.Context, id int64, vars map[string]any) (Rendered, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Rendered{}, mapNoRows(err)
	}
	return Render(t, vars)
}

// Render executes subject and body; a missing variable is a RenderError.
func Render(t dom.EmailTemplate, vars map[string]any) (Rendered, error) {
	if vars == nil {
		vars = map[string]any{}
	}
	var out Rendered
	for _, part := range []struct {
		name, text string
		dst        *string
	}{
		{"subject", t.Subject, &out.Subject},
		{"body", t.Body, &out.Body},
	} {
		tpl, err := parse(part.name, part.text)
		if err != nil {
			return Rendered{}, invalid(part.name, "%v", err)
		}
		var b strings.Builder
		if err := tpl.Execute(&b, vars); err != nil {
			return Rendered{}, &RenderError{Err: err}
		}
		*part.dst = b.String()
	}
	return out, nil
}
