package ui

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"dupfinder/adapters/excel"
	"dupfinder/adapters/postgres"
	"dupfinder/domain/sheet"
	"dupfinder/internal/compare"
	"dupfinder/internal/errors"
	"dupfinder/internal/profile"
	"dupfinder/internal/report"

	"github.com/gomarkdown/markdown"
)

const sessionCookie = "dupfinder_session"

// uploadView is the per-file state shown on the configuration step.
type uploadView struct {
	Filename string
	Sheets   []string
	Columns  []string
}

type indexView struct {
	Messages     []sheet.Message
	First        *uploadView
	Second       *uploadView
	DefaultChunk int
	HasUploads   bool
}

type resultsView struct {
	Messages      []sheet.Message
	HasResult     bool
	Columns       []string
	Preview       []sheet.Row
	Total         int
	Truncated     bool
	LookupSize    int
	RowsScanned   int
	FirstName     string
	SecondName    string
	FirstProfile  []profile.ColumnProfile
	SecondProfile []profile.ColumnProfile
}

type helpView struct {
	Content template.HTML
}

// handleIndex renders the upload form, or the configuration step when the
// session already holds two files.
func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	view := indexView{DefaultChunk: a.config.Compare.DefaultChunkSize}
	if s, ok := a.currentSession(r); ok && s.First != nil && s.Second != nil {
		view.First = newUploadView(s.First)
		view.Second = newUploadView(s.Second)
		view.HasUploads = true
	}
	a.render(w, "index.html", view)
}

// handleUpload accepts both workbook files, lists their sheets and header
// columns, and stores the bytes in a fresh session.
func (a *App) handleUpload(w http.ResponseWriter, r *http.Request) {
	log.Printf("[handleUpload] Starting file upload process")

	maxBytes := a.config.Upload.MaxUploadMB * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		log.Printf("[handleUpload] FAILED - multipart parse: %v", err)
		a.renderIndexError(w, http.StatusBadRequest,
			fmt.Sprintf("Upload failed: files exceed the %d MB limit or the request is malformed.", a.config.Upload.MaxUploadMB))
		return
	}

	first, err := a.readUpload(r, "file1")
	if err != nil {
		log.Printf("[handleUpload] FAILED - file1: %v", err)
		a.renderIndexError(w, http.StatusBadRequest, fmt.Sprintf("File 1: %v", err))
		return
	}
	second, err := a.readUpload(r, "file2")
	if err != nil {
		log.Printf("[handleUpload] FAILED - file2: %v", err)
		a.renderIndexError(w, http.StatusBadRequest, fmt.Sprintf("File 2: %v", err))
		return
	}

	s := a.store.create()
	s.First = first
	s.Second = second
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
	})

	log.Printf("[handleUpload] Session %s: %q (%d sheets) vs %q (%d sheets)",
		s.ID, first.Filename, len(first.Sheets), second.Filename, len(second.Sheets))

	view := indexView{
		First:        newUploadView(first),
		Second:       newUploadView(second),
		DefaultChunk: a.config.Compare.DefaultChunkSize,
		HasUploads:   true,
		Messages: []sheet.Message{{
			Severity: sheet.SeverityInfo,
			Text:     "Files uploaded. Select sheets and identifier columns, then run the comparison.",
		}},
	}
	a.render(w, "index.html", view)
}

// handleCompare runs the full pipeline: load both files, match, profile, and
// render a preview. The per-session semaphore keeps one comparison at a time.
func (a *App) handleCompare(w http.ResponseWriter, r *http.Request) {
	s, ok := a.currentSession(r)
	if !ok || s.First == nil || s.Second == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if !s.running.TryAcquire(1) {
		http.Error(w, "a comparison is already running for this session", http.StatusConflict)
		return
	}
	defer s.running.Release(1)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	sheets1 := r.Form["sheets1"]
	sheets2 := r.Form["sheets2"]
	id1 := strings.TrimSpace(r.FormValue("id1"))
	id2 := strings.TrimSpace(r.FormValue("id2"))
	header1 := formInt(r, "header1", 1) - 1
	header2 := formInt(r, "header2", 1) - 1
	chunkSize := formInt(r, "chunk_size", a.config.Compare.DefaultChunkSize)

	if len(sheets1) == 0 || len(sheets2) == 0 || id1 == "" || id2 == "" {
		a.renderIndexError(w, http.StatusBadRequest,
			"Select at least one sheet and an identifier column for each file.")
		return
	}

	started := time.Now()
	reporter := &sheet.Log{}

	df1, err1 := excel.LoadSheets(s.First.Data, sheets1, id1, header1, reporter)
	df2, err2 := excel.LoadSheets(s.Second.Data, sheets2, id2, header2, reporter)
	if err1 != nil || err2 != nil {
		log.Printf("[handleCompare] Load failed: file1=%v file2=%v", err1, err2)
		a.render(w, "results.html", resultsView{Messages: reporter.Messages})
		return
	}

	result, err := compare.FindDuplicates(df1, df2, compare.Config{
		ChunkSize: chunkSize,
		Reporter:  reporter,
		Progress: func(processed, total int) {
			log.Printf("[handleCompare] Processed %d of %d rows from the first file", processed, total)
		},
	})
	if err != nil {
		log.Printf("[handleCompare] FAILED - matcher: %v", err)
		a.renderIndexError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.Result = result

	a.recordRun(r, s, df1.Len(), df2.Len(), len(sheets1), len(sheets2), result, time.Since(started))

	view := resultsView{
		Messages:      reporter.Messages,
		HasResult:     true,
		Columns:       result.Matches.Columns,
		Preview:       result.Matches.Rows,
		Total:         result.Matched,
		LookupSize:    result.LookupSize,
		RowsScanned:   result.RowsScanned,
		FirstName:     s.First.Filename,
		SecondName:    s.Second.Filename,
		FirstProfile:  profile.Collection(df1),
		SecondProfile: profile.Collection(df2),
	}
	if limit := a.config.Compare.PreviewRows; len(view.Preview) > limit {
		view.Preview = view.Preview[:limit]
		view.Truncated = true
	}
	a.render(w, "results.html", view)
}

// handleDownload streams the last match result as the exported CSV report.
func (a *App) handleDownload(w http.ResponseWriter, r *http.Request) {
	s, ok := a.currentSession(r)
	if !ok || s.Result == nil {
		http.Error(w, "no comparison result available", http.StatusNotFound)
		return
	}

	data, err := report.WriteCSV(s.Result.Matches)
	if err != nil {
		log.Printf("[handleDownload] FAILED - CSV export: %v", err)
		http.Error(w, "failed to build report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="duplicate_report.csv"`)
	if _, err := w.Write(data); err != nil {
		log.Printf("[handleDownload] FAILED - write: %v", err)
	}
}

// handleHelp renders the embedded markdown help page.
func (a *App) handleHelp(w http.ResponseWriter, r *http.Request) {
	src, err := embeddedFiles.ReadFile("help.md")
	if err != nil {
		http.Error(w, "help unavailable", http.StatusInternalServerError)
		return
	}
	a.render(w, "help.html", helpView{Content: template.HTML(markdown.ToHTML(src, nil, nil))})
}

// recordRun writes the audit record when a repository is configured. Audit
// failures never fail the request.
func (a *App) recordRun(r *http.Request, s *session, rows1, rows2, sheets1, sheets2 int, result *compare.Result, elapsed time.Duration) {
	if a.runs == nil {
		return
	}
	run := &postgres.ComparisonRun{
		FirstFile:    s.First.Filename,
		SecondFile:   s.Second.Filename,
		SheetsFirst:  sheets1,
		SheetsSecond: sheets2,
		RowsFirst:    rows1,
		RowsSecond:   rows2,
		LookupSize:   result.LookupSize,
		Matched:      result.Matched,
		DurationMS:   elapsed.Milliseconds(),
	}
	if err := a.runs.Record(r.Context(), run); err != nil {
		log.Printf("[recordRun] WARNING - audit insert failed: %v", err)
	}
}

func (a *App) currentSession(r *http.Request) (*session, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil, false
	}
	return a.store.get(cookie.Value)
}

// readUpload pulls one workbook out of the multipart form and inspects it.
func (a *App) readUpload(r *http.Request, field string) (*upload, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, errors.InvalidInput("no file uploaded")
	}
	defer file.Close()

	if !hasValidExtension(header.Filename) {
		return nil, errors.InvalidInput("only Excel workbooks (.xlsx, .xlsm) are allowed")
	}
	if ct := header.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "sheet") &&
		!strings.Contains(ct, "excel") && !strings.Contains(ct, "octet-stream") {
		// Browsers are unreliable about spreadsheet MIME types; the parse
		// below is the real gate.
		log.Printf("[readUpload] WARNING - unexpected MIME type %q for %q", ct, header.Filename)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read uploaded file")
	}

	sheets, err := excel.SheetNames(data)
	if err != nil {
		return nil, err
	}
	if len(sheets) == 0 {
		return nil, errors.NoUsableData("workbook contains no sheets")
	}

	columns, err := excel.HeaderColumns(data, sheets[0], 0)
	if err != nil {
		log.Printf("[readUpload] WARNING - could not read header columns of %q: %v", header.Filename, err)
	}

	return &upload{
		Filename: header.Filename,
		Data:     data,
		Sheets:   sheets,
		Columns:  columns,
	}, nil
}

func (a *App) renderIndexError(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	a.render(w, "index.html", indexView{
		DefaultChunk: a.config.Compare.DefaultChunkSize,
		Messages:     []sheet.Message{{Severity: sheet.SeverityError, Text: text}},
	})
}

func newUploadView(u *upload) *uploadView {
	return &uploadView{Filename: u.Filename, Sheets: u.Sheets, Columns: u.Columns}
}

func hasValidExtension(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".xlsm")
}

func formInt(r *http.Request, field string, fallback int) int {
	if v := strings.TrimSpace(r.FormValue(field)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
