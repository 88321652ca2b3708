package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kirillkom/deckdoc/internal/config"
	"github.com/kirillkom/deckdoc/internal/core/domain"
	"github.com/kirillkom/deckdoc/internal/core/ports"
)

type Router struct {
	cfg       config.Config
	submitUC  ports.JobSubmitter
	store     ports.JobStore
	workspace ports.JobWorkspace
}

func NewRouter(
	cfg config.Config,
	submitUC ports.JobSubmitter,
	store ports.JobStore,
	workspace ports.JobWorkspace,
) *Router {
	return &Router{
		cfg:       cfg,
		submitUC:  submitUC,
		store:     store,
		workspace: workspace,
	}
}

func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(accessLogMiddleware)
	if rt.cfg.APIRateLimitRPS > 0 {
		r.Use(func(next http.Handler) http.Handler {
			return rateLimitMiddleware(next, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
		})
	}
	if rt.cfg.APIMaxInFlight > 0 {
		wait := time.Duration(rt.cfg.APIBackpressureWaitMS) * time.Millisecond
		r.Use(func(next http.Handler) http.Handler {
			return backpressureMiddleware(next, rt.cfg.APIMaxInFlight, wait)
		})
	}

	r.Get("/healthz", rt.healthz)
	r.Post("/v1/jobs", rt.submitJob)
	r.Get("/v1/jobs/{jobID}", rt.getJob)
	r.Get("/v1/jobs/{jobID}/report", rt.downloadReport)
	return r
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) submitJob(w http.ResponseWriter, r *http.Request) {
	if rt.cfg.MaxUploadMB > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, int64(rt.cfg.MaxUploadMB)<<20)
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	job, err := rt.submitUC.Submit(r.Context(), fileHeader.Filename, file)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, job)
}

func (rt *Router) getJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	job, ok := rt.store.Get(jobID)
	if !ok {
		writeError(w, domain.WrapError(domain.ErrJobNotFound, "get job", errors.New(jobID)))
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (rt *Router) downloadReport(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	job, ok := rt.store.Get(jobID)
	if !ok {
		writeError(w, domain.WrapError(domain.ErrJobNotFound, "download report", errors.New(jobID)))
		return
	}
	if job.Status != domain.StatusCompleted {
		writeError(w, domain.WrapError(
			domain.ErrJobNotReady,
			"download report",
			fmt.Errorf("job is %s", job.Status),
		))
		return
	}

	reportPath := rt.workspace.ReportPath(jobID)
	if _, err := os.Stat(reportPath); err != nil {
		// Completed job without a report file is a consistency defect;
		// surface it rather than substitute anything.
		writeError(w, domain.WrapError(domain.ErrReportMissing, "download report", err))
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "knowledge_doc_"+jobID+".md"))
	http.ServeFile(w, r, reportPath)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}
