package circular

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"officehr/internal/domain/employee"
	"officehr/internal/platform/email"
)

// Directory is the part of the employee service a circular needs to find its
// audience.
type Directory interface {
	Get(ctx context.Context, id string) (employee.Employee, error)
	List(ctx context.Context, limit, offset int) ([]employee.Employee, int, error)
}

type Service struct {
	store     StoreAPI
	directory Directory
	mailer    email.Mailer
	orgName   string
	now       func() time.Time
}

func NewService(store StoreAPI, directory Directory, mailer email.Mailer, orgName string) *Service {
	if orgName == "" {
		orgName = "HR Department"
	}
	return &Service{store: store, directory: directory, mailer: mailer, orgName: orgName, now: time.Now}
}

// CreateDraft stores c as a new draft.
func (s *Service) CreateDraft(ctx context.Context, c Circular) (Circular, error) {
	c = normalize(c)
	if err := validate(c); err != nil {
		return Circular{}, err
	}
	now := s.now().UTC()
	c.ID = uuid.NewString()
	c.Status = StatusDraft
	c.Recipients = 0
	c.PublishedAt = nil
	c.CreatedAt = now
	c.UpdatedAt = now
	if err := s.store.Create(ctx, c); err != nil {
		return Circular{}, err
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, id string) (Circular, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Circular, int, error) {
	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.store.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update edits a draft. Published circulars are immutable.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (before, after Circular, err error) {
	before, err = s.store.Get(ctx, id)
	if err != nil {
		return Circular{}, Circular{}, err
	}
	if before.Status == StatusPublished {
		return Circular{}, Circular{}, ErrAlreadyPublished
	}
	after = normalize(patch.Apply(before))
	if err := validate(after); err != nil {
		return Circular{}, Circular{}, err
	}
	after.UpdatedAt = s.now().UTC()
	if err := s.store.Update(ctx, after); err != nil {
		return Circular{}, Circular{}, err
	}
	return before, after, nil
}

func (s *Service) Delete(ctx context.Context, id string) (Circular, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return Circular{}, err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return Circular{}, err
	}
	return c, nil
}

// Publish mails the draft id to its audience and marks it published. The
// circular stays a draft when any message fails, so it can be published
// again; employees already mailed will then receive it twice.
func (s *Service) Publish(ctx context.Context, id, from string) (Delivery, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return Delivery{}, err
	}
	if c.Status == StatusPublished {
		return Delivery{}, ErrAlreadyPublished
	}
	audience, err := s.Audience(ctx, c)
	if err != nil {
		return Delivery{}, err
	}

	var delivery Delivery
	var recipients []employee.Employee
	for _, emp := range audience {
		if strings.TrimSpace(emp.Email) == "" {
			delivery.Skipped = append(delivery.Skipped, emp.ID)
			continue
		}
		recipients = append(recipients, emp)
	}
	if len(recipients) == 0 {
		return Delivery{}, ErrNoRecipients
	}
	for _, emp := range recipients {
		if err := s.mailer.Send(ctx, s.message(c, emp, from)); err != nil {
			slog.Error("circular email failed", "circular_id", c.ID, "employee_id", emp.ID, "sent", len(delivery.Sent), "err", err)
			return delivery, fmt.Errorf("%w after %d of %d messages: %v", ErrDelivery, len(delivery.Sent), len(recipients), err)
		}
		delivery.Sent = append(delivery.Sent, emp.Email)
	}

	now := s.now().UTC()
	c.Status = StatusPublished
	c.Recipients = len(delivery.Sent)
	c.PublishedAt = &now
	c.UpdatedAt = now
	if err := s.store.Update(ctx, c); err != nil {
		return delivery, err
	}
	delivery.Circular = c
	return delivery, nil
}

// Send stores c as a draft and publishes it in one step.
func (s *Service) Send(ctx context.Context, c Circular, from string) (Delivery, error) {
	draft, err := s.CreateDraft(ctx, c)
	if err != nil {
		return Delivery{}, err
	}
	delivery, err := s.Publish(ctx, draft.ID, from)
	if err != nil && delivery.Circular.ID == "" {
		delivery.Circular = draft
	}
	return delivery, err
}

// Audience resolves the employees c is addressed to. Explicit employee ids
// take precedence over departments; with neither, every employee is included.
func (s *Service) Audience(ctx context.Context, c Circular) ([]employee.Employee, error) {
	if len(c.EmployeeIDs) > 0 {
		out := make([]employee.Employee, 0, len(c.EmployeeIDs))
		for _, id := range c.EmployeeIDs {
			emp, err := s.directory.Get(ctx, id)
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				return nil, fmt.Errorf("%w: unknown employee %q", ErrInvalidInput, id)
			}
			if err != nil {
				return nil, err
			}
			out = append(out, emp)
		}
		return out, nil
	}

	wanted := make(map[string]bool, len(c.Departments))
	for _, dept := range c.Departments {
		wanted[departmentKey(dept)] = true
	}
	var out []employee.Employee
	err := s.eachEmployee(ctx, func(emp employee.Employee) {
		if len(wanted) == 0 || wanted[departmentKey(emp.Department)] {
			out = append(out, emp)
		}
	})
	return out, err
}

// Departments lists the distinct, non-blank departments in the directory.
func (s *Service) Departments(ctx context.Context) ([]string, error) {
	seen := map[string]string{}
	err := s.eachEmployee(ctx, func(emp employee.Employee) {
		name := strings.TrimSpace(emp.Department)
		if name == "" {
			return
		}
		if _, ok := seen[departmentKey(name)]; !ok {
			seen[departmentKey(name)] = name
		}
	})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(seen))
	for _, name := range seen {
		out = append(out, name)
	}
	slices.Sort(out)
	return out, nil
}

func (s *Service) eachEmployee(ctx context.Context, fn func(employee.Employee)) error {
	for offset := 0; ; offset += audiencePage {
		items, total, err := s.directory.List(ctx, audiencePage, offset)
		if err != nil {
			return err
		}
		for _, emp := range items {
			fn(emp)
		}
		if len(items) < audiencePage || offset+len(items) >= total {
			return nil
		}
	}
}

func (s *Service) message(c Circular, emp employee.Employee, from string) email.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n%s\n\n", emp.FirstName, c.Content)
	fmt.Fprintf(&b, "Effective From: %s\n", formatDay(c.EffectiveDate))
	if c.ExpiryDate != nil {
		fmt.Fprintf(&b, "Expires: %s\n", formatDay(c.ExpiryDate))
	}
	fmt.Fprintf(&b, "\nRegards,\n%s\n", s.orgName)
	subject := c.Title
	if c.Category != "" {
		subject = "[" + c.Category + "] " + c.Title
	}
	return email.Message{From: from, To: emp.Email, Subject: subject, Body: b.String()}
}

func formatDay(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("02 Jan 2006")
}

func departmentKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func normalize(c Circular) Circular {
	c.Title = strings.TrimSpace(c.Title)
	c.Category = strings.TrimSpace(c.Category)
	c.Departments = compact(c.Departments)
	c.EmployeeIDs = compact(c.EmployeeIDs)
	return c
}

// compact trims, drops blanks and duplicates, and never returns nil.
func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

func validate(c Circular) error {
	if c.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if c.EffectiveDate != nil && c.ExpiryDate != nil && c.ExpiryDate.Before(*c.EffectiveDate) {
		return fmt.Errorf("%w: expiry date is before effective date", ErrInvalidInput)
	}
	return nil
}
