// Package api exposes the comparison pipeline to programmatic callers as a
// JSON API, separate from the HTML UI.
package api

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"

	"dupfinder/adapters/excel"
	"dupfinder/domain/sheet"
	"dupfinder/internal/compare"
	"dupfinder/internal/config"
	"dupfinder/internal/errors"

	"github.com/gin-gonic/gin"
)

// Service is the JSON API server.
type Service struct {
	router *gin.Engine
	config *config.Config
}

// NewService creates the API service and registers its routes.
func NewService(cfg *config.Config) *Service {
	gin.SetMode(cfg.Server.GinMode)

	s := &Service{
		router: gin.Default(),
		config: cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Service) setupRoutes() {
	s.router.MaxMultipartMemory = s.config.Upload.MaxUploadMB * 1024 * 1024

	s.router.GET("/api/health", s.handleHealth)
	s.router.POST("/api/sheets", s.handleSheets)
	s.router.POST("/api/compare", s.handleCompare)
}

// Handler exposes the router, mainly for tests.
func (s *Service) Handler() http.Handler {
	return s.router
}

// Run starts the API server on the given address.
func (s *Service) Run(addr string) error {
	log.Printf("[api.Service] JSON API listening on %s", addr)
	return s.router.Run(addr)
}

func (s *Service) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleSheets lists the sheet names of one uploaded workbook.
func (s *Service) handleSheets(c *gin.Context) {
	data, filename, err := readFormFile(c, "file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sheets, err := excel.SheetNames(data)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": fmt.Sprintf("%s: %v", filename, err),
			"code":  errors.GetCode(err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"filename": filename, "sheets": sheets})
}

// compareParams are the non-file fields of a compare request.
type compareParams struct {
	Sheets1    []string `form:"sheets1" binding:"required"`
	Sheets2    []string `form:"sheets2" binding:"required"`
	IDColumn1  string   `form:"id1" binding:"required"`
	IDColumn2  string   `form:"id2" binding:"required"`
	HeaderRow1 int      `form:"header1"`
	HeaderRow2 int      `form:"header2"`
	ChunkSize  int      `form:"chunk_size"`
}

// handleCompare runs the full pipeline on two uploaded workbooks and returns
// the matched rows together with all loader and matcher messages.
func (s *Service) handleCompare(c *gin.Context) {
	var params compareParams
	if err := c.ShouldBind(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	data1, name1, err := readFormFile(c, "file1")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	data2, name2, err := readFormFile(c, "file2")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chunkSize := params.ChunkSize
	if chunkSize < 1 {
		chunkSize = s.config.Compare.DefaultChunkSize
	}

	reporter := &sheet.Log{}
	df1, err1 := excel.LoadSheets(data1, params.Sheets1, params.IDColumn1, params.HeaderRow1, reporter)
	df2, err2 := excel.LoadSheets(data2, params.Sheets2, params.IDColumn2, params.HeaderRow2, reporter)
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":    "loading failed",
			"messages": reporter.Messages,
		})
		return
	}

	result, err := compare.FindDuplicates(df1, df2, compare.Config{
		ChunkSize: chunkSize,
		Reporter:  reporter,
		Progress: func(processed, total int) {
			log.Printf("[api.handleCompare] Processed %d of %d rows", processed, total)
		},
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"first_file":   name1,
		"second_file":  name2,
		"columns":      result.Matches.Columns,
		"rows":         result.Matches.Rows,
		"matched":      result.Matched,
		"rows_scanned": result.RowsScanned,
		"lookup_size":  result.LookupSize,
		"messages":     reporter.Messages,
	})
}

func readFormFile(c *gin.Context, field string) ([]byte, string, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, "", errors.InvalidInput(fmt.Sprintf("missing file field %q", field))
	}
	data, err := readAll(header)
	if err != nil {
		return nil, "", errors.Wrapf(err, "failed to read %q", header.Filename)
	}
	return data, header.Filename, nil
}

func readAll(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
