package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/url"
	"strconv"

	"github.com/scamshield/scamshield/internal/models"
)

// ReportQuery narrows the report listing server-side. Zero values mean "no
// constraint"; the client-side pipeline handles the finer-grained filtering.
type ReportQuery struct {
	Status   string
	ScamType string
	Risk     string
	Search   string
	Address  string // matches reporter or scammer
	Reporter string
	Page     int
}

func (q ReportQuery) values() url.Values {
	v := url.Values{}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.ScamType != "" {
		v.Set("scam_type", q.ScamType)
	}
	if q.Risk != "" {
		v.Set("risk_level", q.Risk)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Address != "" {
		v.Set("address", q.Address)
	}
	if q.Reporter != "" {
		v.Set("reporter", q.Reporter)
	}
	if q.Page > 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	return v
}

// ListReports fetches one page of the public report listing.
func (c *Client) ListReports(ctx context.Context, q ReportQuery) (*models.ReportPage, error) {
	var page models.ReportPage
	if err := c.get(ctx, "/reports/", q.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetReport fetches a single report with evidence and verifications.
func (c *Client) GetReport(ctx context.Context, id string) (*models.Report, error) {
	var report models.Report
	if err := c.get(ctx, "/reports/"+url.PathEscape(id)+"/", nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// EvidenceFile is one attachment included in a report submission.
type EvidenceFile struct {
	Name string
	Data []byte
}

// ReportSubmission is the multipart payload for POST /reports/.
type ReportSubmission struct {
	Title             string
	ScammerAddress    string
	ScamType          models.ScamType
	Description       string
	ContactInfo       string
	AdditionalDetails string
	TransactionHash   string
	SuiObjectID       string
	TransactionAmount float64
	StakeAmount       int64
	Evidence          []EvidenceFile
}

// SubmitReport creates a new report. The response is the created report; its
// ID is what the navigation layer needs.
func (c *Client) SubmitReport(ctx context.Context, sub ReportSubmission) (*models.Report, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	fields := map[string]string{
		"title":              sub.Title,
		"scammer_address":    sub.ScammerAddress,
		"scam_type":          string(sub.ScamType),
		"description":        sub.Description,
		"stake_amount":       strconv.FormatInt(sub.StakeAmount, 10),
		"transaction_amount": strconv.FormatFloat(sub.TransactionAmount, 'f', -1, 64),
	}
	optional := map[string]string{
		"contact_info":       sub.ContactInfo,
		"additional_details": sub.AdditionalDetails,
		"transaction_hash":   sub.TransactionHash,
		"sui_object_id":      sub.SuiObjectID,
	}
	for key, val := range optional {
		if val != "" {
			fields[key] = val
		}
	}
	for key, val := range fields {
		if err := w.WriteField(key, val); err != nil {
			return nil, &NetworkError{Err: fmt.Errorf("write field %s: %w", key, err)}
		}
	}

	for _, f := range sub.Evidence {
		part, err := w.CreateFormFile("evidence_files", f.Name)
		if err != nil {
			return nil, &NetworkError{Err: fmt.Errorf("create evidence part %s: %w", f.Name, err)}
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, &NetworkError{Err: fmt.Errorf("write evidence %s: %w", f.Name, err)}
		}
	}

	if err := w.Close(); err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("close multipart body: %w", err)}
	}

	var report models.Report
	if err := c.do(ctx, "POST", "/reports/", nil, &body, w.FormDataContentType(), &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// VerifyReport votes on a pending report. verified=true confirms the scam,
// false rejects the claim.
func (c *Client) VerifyReport(ctx context.Context, id string, verified bool, comment, txDigest string) (*models.Verification, error) {
	payload := map[string]interface{}{
		"verified": verified,
		"comment":  comment,
	}
	if txDigest != "" {
		payload["transaction_hash"] = txDigest
	}

	var v models.Verification
	if err := c.postJSON(ctx, "/reports/"+url.PathEscape(id)+"/verify/", payload, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// MyReports lists reports submitted by the connected wallet.
func (c *Client) MyReports(ctx context.Context) (*models.ReportPage, error) {
	var page models.ReportPage
	if err := c.get(ctx, "/my-reports/", nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// PendingVerifications lists reports the connected wallet can still vote on.
func (c *Client) PendingVerifications(ctx context.Context) (*models.ReportPage, error) {
	var page models.ReportPage
	if err := c.get(ctx, "/pending-verifications/", nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
