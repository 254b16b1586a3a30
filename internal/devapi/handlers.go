package devapi

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/scamshield/scamshield/internal/config"
	"github.com/scamshield/scamshield/internal/models"
	"github.com/scamshield/scamshield/internal/validate"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

// writeDetail writes the single-message error shape: {"detail": "..."}.
func writeDetail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"detail": message})
}

// writeFieldErrors writes the per-field error shape: {"field": ["msg"]}.
func writeFieldErrors(w http.ResponseWriter, fields map[string]string) {
	out := make(map[string][]string, len(fields))
	for field, msg := range fields {
		out[field] = []string{msg}
	}
	writeJSON(w, http.StatusBadRequest, out)
}

// ListReportsHandler handles GET /api/reports/.
func ListReportsHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := ReportFilter{
			Status:   q.Get("status"),
			ScamType: q.Get("scam_type"),
			Risk:     q.Get("risk_level"),
			Search:   q.Get("search"),
			Address:  q.Get("address"),
			Reporter: q.Get("reporter"),
			Page:     parseIntParam(r, "page", 1),
			PageSize: config.ReportsPageSize,
		}

		reports, total, err := store.ListReports(filter)
		if err != nil {
			slog.Error("failed to list reports", "error", err)
			writeDetail(w, http.StatusInternalServerError, "failed to list reports")
			return
		}
		if reports == nil {
			reports = []models.Report{}
		}
		writeJSON(w, http.StatusOK, models.ReportPage{Results: reports, Count: total})
	}
}

// GetReportHandler handles GET /api/reports/{id}/.
func GetReportHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		report, err := store.GetReport(id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				writeDetail(w, http.StatusNotFound, "Not found.")
				return
			}
			slog.Error("failed to get report", "id", id, "error", err)
			writeDetail(w, http.StatusInternalServerError, "failed to get report")
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

// CreateReportHandler handles POST /api/reports/ (multipart form).
func CreateReportHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wallet := walletFrom(r)

		if err := r.ParseMultipartForm(config.MultipartMemoryLimit); err != nil {
			slog.Warn("invalid multipart body", "error", err)
			writeDetail(w, http.StatusBadRequest, "invalid multipart body")
			return
		}

		report := models.Report{
			Title:             strings.TrimSpace(r.FormValue("title")),
			ScammerAddress:    strings.TrimSpace(r.FormValue("scammer_address")),
			ScamType:          models.ScamType(r.FormValue("scam_type")),
			Description:       strings.TrimSpace(r.FormValue("description")),
			ContactInfo:       r.FormValue("contact_info"),
			AdditionalDetails: r.FormValue("additional_details"),
			TransactionHash:   r.FormValue("transaction_hash"),
			SuiObjectID:       r.FormValue("sui_object_id"),
			ReporterAddress:   wallet,
		}
		report.TransactionAmount, _ = strconv.ParseFloat(r.FormValue("transaction_amount"), 64)
		report.StakeAmount, _ = strconv.ParseInt(r.FormValue("stake_amount"), 10, 64)

		if fields := validateSubmission(report); len(fields) > 0 {
			slog.Warn("report submission rejected", "fields", len(fields))
			writeFieldErrors(w, fields)
			return
		}

		files := r.MultipartForm.File["evidence_files"]
		if len(files) == 0 {
			writeFieldErrors(w, map[string]string{
				"evidence_files": "at least one evidence file is required",
			})
			return
		}

		var evidence []models.Evidence
		for _, fh := range files {
			if fh.Size > config.MaxEvidenceFileSize {
				writeFieldErrors(w, map[string]string{
					"evidence_files": fh.Filename + " exceeds the maximum file size",
				})
				return
			}
			f, err := fh.Open()
			if err != nil {
				slog.Error("failed to open evidence upload", "file", fh.Filename, "error", err)
				writeDetail(w, http.StatusInternalServerError, "failed to read evidence")
				return
			}
			sum := sha256.New()
			_, err = io.Copy(sum, f)
			f.Close()
			if err != nil {
				slog.Error("failed to hash evidence upload", "file", fh.Filename, "error", err)
				writeDetail(w, http.StatusInternalServerError, "failed to read evidence")
				return
			}
			evidence = append(evidence, models.Evidence{
				Type:     "file",
				FileName: fh.Filename,
				Hash:     hex.EncodeToString(sum.Sum(nil)),
			})
		}

		if err := store.CreateReport(&report, evidence); err != nil {
			if errors.Is(err, ErrDuplicateReport) {
				writeFieldErrors(w, map[string]string{
					"scammer_address": "you have already reported this address",
				})
				return
			}
			slog.Error("failed to create report", "error", err)
			writeDetail(w, http.StatusInternalServerError, "failed to create report")
			return
		}

		slog.Info("report created",
			"id", report.ID,
			"scamType", report.ScamType,
			"reporter", report.ReporterAddress,
		)
		writeJSON(w, http.StatusCreated, report)
	}
}

// validateSubmission mirrors the client-side gates so direct API callers get
// the same rules.
func validateSubmission(r models.Report) map[string]string {
	fields := map[string]string{}
	if r.Title == "" {
		fields["title"] = "this field is required"
	}
	if err := validate.Address(r.ScammerAddress); err != nil {
		fields["scammer_address"] = "enter a valid Sui address"
	}
	if !r.ScamType.Known() {
		fields["scam_type"] = "select a valid scam type"
	}
	if len(r.Description) < config.MinDescriptionLength {
		fields["description"] = "description must be at least " +
			strconv.Itoa(config.MinDescriptionLength) + " characters"
	}
	if r.StakeAmount < config.StakeMin || r.StakeAmount > config.StakeMax ||
		r.StakeAmount%config.StakeStep != 0 {
		fields["stake_amount"] = "stake must be between " +
			strconv.Itoa(config.StakeMin) + " and " + strconv.Itoa(config.StakeMax)
	}
	if r.TransactionHash != "" {
		if err := validate.TransactionDigest(r.TransactionHash); err != nil {
			fields["transaction_hash"] = "enter a valid transaction digest"
		}
	}
	return fields
}

type verifyRequest struct {
	Verified        bool   `json:"verified"`
	Comment         string `json:"comment"`
	TransactionHash string `json:"transaction_hash"`
}

// VerifyReportHandler handles POST /api/reports/{id}/verify/.
func VerifyReportHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		wallet := walletFrom(r)

		var body verifyRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeDetail(w, http.StatusBadRequest, "invalid request body")
			return
		}

		report, err := store.AddVerification(id, wallet, body.Verified, body.Comment, body.TransactionHash)
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				writeDetail(w, http.StatusNotFound, "Not found.")
			case errors.Is(err, ErrDuplicateVote):
				writeDetail(w, http.StatusBadRequest, "You have already verified this report.")
			case errors.Is(err, ErrOwnReport):
				writeDetail(w, http.StatusBadRequest, "You cannot verify your own report.")
			case errors.Is(err, ErrReportSettled):
				writeDetail(w, http.StatusBadRequest, "This report has already been settled.")
			default:
				slog.Error("failed to verify report", "id", id, "error", err)
				writeDetail(w, http.StatusInternalServerError, "failed to verify report")
			}
			return
		}

		slog.Info("report verified",
			"id", id,
			"verifier", wallet,
			"verified", body.Verified,
			"status", report.Status,
		)

		// The response is this wallet's recorded vote.
		for _, v := range report.Verifications {
			if strings.EqualFold(v.Verifier, wallet) {
				writeJSON(w, http.StatusOK, v)
				return
			}
		}
		writeDetail(w, http.StatusInternalServerError, "verification not recorded")
	}
}

// MyReportsHandler handles GET /api/my-reports/.
func MyReportsHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wallet := walletFrom(r)
		reports, total, err := store.ListReports(ReportFilter{
			Reporter: wallet,
			Page:     parseIntParam(r, "page", 1),
			PageSize: config.ReportsPageSize,
		})
		if err != nil {
			slog.Error("failed to list own reports", "error", err)
			writeDetail(w, http.StatusInternalServerError, "failed to list reports")
			return
		}
		if reports == nil {
			reports = []models.Report{}
		}
		writeJSON(w, http.StatusOK, models.ReportPage{Results: reports, Count: total})
	}
}

// PendingVerificationsHandler handles GET /api/pending-verifications/.
func PendingVerificationsHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wallet := walletFrom(r)
		reports, err := store.PendingVerifications(wallet, time.Now().UTC())
		if err != nil {
			slog.Error("failed to list pending verifications", "error", err)
			writeDetail(w, http.StatusInternalServerError, "failed to list pending verifications")
			return
		}
		if reports == nil {
			reports = []models.Report{}
		}
		writeJSON(w, http.StatusOK, models.ReportPage{Results: reports, Count: len(reports)})
	}
}

// DashboardStatsHandler handles GET /api/dashboard-stats/.
func DashboardStatsHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := store.Stats()
		if err != nil {
			slog.Error("failed to aggregate stats", "error", err)
			writeDetail(w, http.StatusInternalServerError, "failed to aggregate stats")
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

// ScammerCheckHandler handles GET /api/scammer-check/?address=.
func ScammerCheckHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		address := r.URL.Query().Get("address")
		if err := validate.Address(address); err != nil {
			writeFieldErrors(w, map[string]string{"address": "enter a valid Sui address"})
			return
		}
		check, err := store.CheckScammer(address)
		if err != nil {
			slog.Error("failed to check scammer", "error", err)
			writeDetail(w, http.StatusInternalServerError, "failed to check address")
			return
		}
		writeJSON(w, http.StatusOK, check)
	}
}

// MerchantsHandler handles GET /api/merchants/.
func MerchantsHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchants, err := store.Merchants()
		if err != nil {
			slog.Error("failed to list merchants", "error", err)
			writeDetail(w, http.StatusInternalServerError, "failed to list merchants")
			return
		}
		if merchants == nil {
			merchants = []models.Merchant{}
		}
		writeJSON(w, http.StatusOK, merchants)
	}
}

type createMerchantRequest struct {
	Name string `json:"name"`
}

// CreateMerchantHandler handles POST /api/merchants/.
func CreateMerchantHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createMerchantRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Name) == "" {
			writeFieldErrors(w, map[string]string{"name": "this field is required"})
			return
		}
		merchant, err := store.CreateMerchant(strings.TrimSpace(body.Name))
		if err != nil {
			slog.Error("failed to create merchant", "error", err)
			writeDetail(w, http.StatusInternalServerError, "failed to create merchant")
			return
		}
		writeJSON(w, http.StatusCreated, merchant)
	}
}

// GenerateAPIKeyHandler handles POST /api/merchants/{id}/generate_api_key/.
func GenerateAPIKeyHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		key, err := store.RotateAPIKey(id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				writeDetail(w, http.StatusNotFound, "Not found.")
				return
			}
			slog.Error("failed to rotate api key", "id", id, "error", err)
			writeDetail(w, http.StatusInternalServerError, "failed to generate api key")
			return
		}
		slog.Info("merchant api key rotated", "id", id)
		writeJSON(w, http.StatusOK, map[string]string{"api_key": key})
	}
}

// HealthHandler handles GET /api/health.
func HealthHandler(network, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
			"network": network,
		})
	}
}

// parseIntParam extracts an integer query parameter with a default value.
func parseIntParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
