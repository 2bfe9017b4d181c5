package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
	"research/internal/domain"
)

const maxUploadBytes = 50 << 20

type detailResponse struct {
	Detail string `json:"detail"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type textResponse struct {
	Response string `json:"response"`
}

type fileEntry struct {
	Filename string `json:"filename"`
	FilePath string `json:"file_path"`
	FileSize int64  `json:"file_size"`
}

type filesResponse struct {
	Files []fileEntry `json:"files"`
}

type chatRequest struct {
	Message  string   `json:"message"`
	Files    []string `json:"files"`
	UseAgent *bool    `json:"use_agent"`
}

type searchRequest struct {
	Query string `json:"query"`
}

type citeRequest struct {
	Results []domain.SearchResult `json:"results"`
	UseLLM  bool                  `json:"use_llm"`
}

type compareRequest struct {
	FilePaths []string `json:"file_paths"`
}

type summarizeRequest struct {
	FilePath string `json:"file_path"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.logger.Debug("invalid request body", zap.String("path", r.URL.Path), zap.Error(err))
		writeJSON(w, http.StatusBadRequest, detailResponse{Detail: "Invalid request body"})
		return false
	}
	return true
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "Research Assistant API is running!"})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !s.decode(w, r, &req) {
		return
	}
	useAgent := true
	if req.UseAgent != nil {
		useAgent = *req.UseAgent
	}
	out := s.deps.Agent.Run(r.Context(), req.Message, req.Files, useAgent)
	writeJSON(w, http.StatusOK, textResponse{Response: out})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Query == "" {
		writeJSON(w, http.StatusBadRequest, detailResponse{Detail: "query is required"})
		return
	}
	writeJSON(w, http.StatusOK, textResponse{Response: s.deps.Search.Run(r.Context(), req.Query)})
}

func (s *Server) handleRankAndCite(w http.ResponseWriter, r *http.Request) {
	var req citeRequest
	if !s.decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, textResponse{Response: s.deps.Cite.Run(r.Context(), req.Results, req.UseLLM)})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if !s.decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, textResponse{Response: s.deps.Compare.Run(r.Context(), req.FilePaths)})
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.FilePath == "" {
		writeJSON(w, http.StatusBadRequest, detailResponse{Detail: "file_path is required"})
		return
	}
	writeJSON(w, http.StatusOK, textResponse{Response: s.deps.Summarize.Run(r.Context(), req.FilePath)})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, detailResponse{Detail: "A file field is required"})
		return
	}
	defer file.Close()

	doc, err := s.deps.Documents.Upload(header.Filename, file)
	if err != nil {
		if errors.Is(err, domain.ErrNotPDF) {
			writeJSON(w, http.StatusBadRequest, detailResponse{Detail: "Only PDF files are allowed"})
			return
		}
		s.logger.Error("upload failed", zap.String("file", header.Filename), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, detailResponse{Detail: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, fileEntry{Filename: doc.Filename, FilePath: doc.Path, FileSize: doc.Size})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("filename")
	if err := s.deps.Documents.Delete(filename); err != nil {
		if errors.Is(err, domain.ErrFileNotFound) {
			writeJSON(w, http.StatusNotFound, detailResponse{Detail: "File not found"})
			return
		}
		s.logger.Error("delete failed", zap.String("file", filename), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, detailResponse{Detail: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "File " + filename + " deleted successfully"})
}

func (s *Server) handleListFiles(w http.ResponseWriter, _ *http.Request) {
	docs, err := s.deps.Documents.List()
	if err != nil {
		s.logger.Error("list failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, detailResponse{Detail: err.Error()})
		return
	}
	files := make([]fileEntry, len(docs))
	for i, d := range docs {
		files[i] = fileEntry{Filename: d.Filename, FilePath: d.Path, FileSize: d.Size}
	}
	writeJSON(w, http.StatusOK, filesResponse{Files: files})
}
