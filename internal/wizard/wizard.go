// Package wizard drives the three-step report submission flow: details,
// evidence, then stake and submit. Forward transitions are gated on the
// current step's validation; backward transitions always succeed and never
// discard entered data.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/scamshield/scamshield/internal/api"
	"github.com/scamshield/scamshield/internal/config"
	"github.com/scamshield/scamshield/internal/models"
	"github.com/scamshield/scamshield/internal/validate"
)

// Step identifies one of the three wizard steps.
type Step int

const (
	StepDetails Step = iota + 1
	StepEvidence
	StepStake
)

// Title returns the display heading for a step.
func (s Step) Title() string {
	switch s {
	case StepDetails:
		return "Scam Details"
	case StepEvidence:
		return "Evidence"
	case StepStake:
		return "Stake & Submit"
	default:
		return fmt.Sprintf("Step %d", int(s))
	}
}

// Form holds everything the user has entered across all steps. Values
// survive backward navigation.
type Form struct {
	Title             string
	ScammerAddress    string
	ScamType          models.ScamType
	Description       string
	ContactInfo       string
	AdditionalDetails string
	TransactionHash   string
	TransactionAmount float64
	Evidence          []api.EvidenceFile
	StakeAmount       int64
}

// Submitter posts the finished form. *api.Client satisfies it.
type Submitter interface {
	SubmitReport(ctx context.Context, sub api.ReportSubmission) (*models.Report, error)
}

// Session reports whether a wallet is connected. The session store
// satisfies it.
type Session interface {
	Connected() bool
}

// Wizard is the submission state machine. Safe for use from the UI
// goroutine with the submission running concurrently.
type Wizard struct {
	mu          sync.Mutex
	step        Step
	form        Form
	fieldErrors map[string]string
	submitting  bool

	session Session
	client  Submitter
}

// New returns a wizard positioned on the details step with the default
// stake.
func New(session Session, client Submitter) *Wizard {
	return &Wizard{
		step:    StepDetails,
		session: session,
		client:  client,
		form: Form{
			StakeAmount: config.StakeDefault,
		},
		fieldErrors: map[string]string{},
	}
}

// Step returns the current step.
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Form returns a copy of the entered data.
func (w *Wizard) Form() Form {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form
}

// SetForm replaces the entered data. The UI calls this after each edit.
func (w *Wizard) SetForm(f Form) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.form = f
}

// FieldErrors returns the validation errors from the last gate check or
// submission attempt, keyed by form field.
func (w *Wizard) FieldErrors() map[string]string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make(map[string]string, len(w.fieldErrors))
	for k, v := range w.fieldErrors {
		out[k] = v
	}
	return out
}

// Submitting reports whether a submission is in flight.
func (w *Wizard) Submitting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitting
}

// Next validates the current step and advances on success. On failure
// the step does not change and FieldErrors describes what is wrong.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var errs map[string]string
	switch w.step {
	case StepDetails:
		errs = validateDetails(w.form)
	case StepEvidence:
		errs = validateEvidence(w.form)
	case StepStake:
		return errors.New("already on the final step")
	}
	w.fieldErrors = errs
	if len(errs) > 0 {
		return fmt.Errorf("step %q has %d invalid field(s)", w.step.Title(), len(errs))
	}
	w.step++
	return nil
}

// Back moves to the previous step. It always succeeds and keeps all
// entered data, including on the first step where it is a no-op.
func (w *Wizard) Back() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step > StepDetails {
		w.step--
	}
	w.fieldErrors = map[string]string{}
}

// Submit validates the whole form and posts it. It refuses to start when a
// wallet is not connected or another submission is in flight; the wallet
// check happens before any network activity. Server-side field errors are
// copied into FieldErrors for the UI to surface.
func (w *Wizard) Submit(ctx context.Context) (*models.Report, error) {
	w.mu.Lock()
	if w.submitting {
		w.mu.Unlock()
		return nil, config.ErrSubmitInProgress
	}
	if !w.session.Connected() {
		w.mu.Unlock()
		return nil, config.ErrNotConnected
	}
	if errs := validateAll(w.form); len(errs) > 0 {
		w.fieldErrors = errs
		w.mu.Unlock()
		return nil, fmt.Errorf("form has %d invalid field(s)", len(errs))
	}
	w.submitting = true
	w.fieldErrors = map[string]string{}
	form := w.form
	w.mu.Unlock()

	report, err := w.client.SubmitReport(ctx, api.ReportSubmission{
		Title:             form.Title,
		ScammerAddress:    form.ScammerAddress,
		ScamType:          form.ScamType,
		Description:       form.Description,
		ContactInfo:       form.ContactInfo,
		AdditionalDetails: form.AdditionalDetails,
		TransactionHash:   form.TransactionHash,
		TransactionAmount: form.TransactionAmount,
		StakeAmount:       form.StakeAmount,
		Evidence:          form.Evidence,
	})

	w.mu.Lock()
	w.submitting = false
	if err != nil {
		var verr *api.ValidationError
		if errors.As(err, &verr) {
			for field, msg := range verr.Fields {
				w.fieldErrors[field] = msg
			}
		}
	}
	w.mu.Unlock()
	return report, err
}

// AddEvidence appends one attachment, enforcing the per-file size cap and
// the attachment count cap.
func (w *Wizard) AddEvidence(f api.EvidenceFile) error {
	if int64(len(f.Data)) > config.MaxEvidenceFileSize {
		return fmt.Errorf("%w: %s is %d bytes", config.ErrFileTooLarge, f.Name, len(f.Data))
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.form.Evidence) >= config.MaxEvidenceFiles {
		return fmt.Errorf("at most %d evidence files", config.MaxEvidenceFiles)
	}
	w.form.Evidence = append(w.form.Evidence, f)
	return nil
}

// RemoveEvidence drops the attachment at index i.
func (w *Wizard) RemoveEvidence(i int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if i < 0 || i >= len(w.form.Evidence) {
		return
	}
	w.form.Evidence = append(w.form.Evidence[:i], w.form.Evidence[i+1:]...)
}

func validateDetails(f Form) map[string]string {
	errs := map[string]string{}
	if f.Title == "" {
		errs["title"] = "title is required"
	}
	if err := validate.Address(f.ScammerAddress); err != nil {
		errs["scammer_address"] = "must be 0x followed by 64 hex characters"
	}
	if !f.ScamType.Known() {
		errs["scam_type"] = "select a scam type"
	}
	if len(f.Description) < config.MinDescriptionLength {
		errs["description"] = fmt.Sprintf("describe the scam in at least %d characters", config.MinDescriptionLength)
	}
	if f.TransactionHash != "" {
		if err := validate.TransactionDigest(f.TransactionHash); err != nil {
			errs["transaction_hash"] = "not a valid transaction digest"
		}
	}
	return errs
}

func validateEvidence(f Form) map[string]string {
	errs := map[string]string{}
	if len(f.Evidence) == 0 {
		errs["evidence_files"] = "attach at least one piece of evidence"
	}
	for _, ev := range f.Evidence {
		if int64(len(ev.Data)) > config.MaxEvidenceFileSize {
			errs["evidence_files"] = fmt.Sprintf("%s exceeds the %d MB limit", ev.Name, config.MaxEvidenceFileSize/(1<<20))
		}
	}
	return errs
}

func validateStake(f Form) map[string]string {
	errs := map[string]string{}
	s := f.StakeAmount
	if s < config.StakeMin || s > config.StakeMax || s%config.StakeStep != 0 {
		errs["stake_amount"] = fmt.Sprintf("stake must be between %d and %d in steps of %d",
			config.StakeMin, config.StakeMax, config.StakeStep)
	}
	return errs
}

func validateAll(f Form) map[string]string {
	errs := validateDetails(f)
	for k, v := range validateEvidence(f) {
		errs[k] = v
	}
	for k, v := range validateStake(f) {
		errs[k] = v
	}
	return errs
}
