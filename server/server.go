package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

type Config struct {
	Port       int
	ReportsDir string
}

// Server exposes previously generated reports over HTTP: static files,
// a JSON listing and a redirect from / to the newest report.
type Server struct {
	config Config
}

type reportEntry struct {
	Name     string `json:"name"`
	Backend  string `json:"backend"`
	Path     string `json:"path"`
	Modified string `json:"modified"`
}

func NewWithConfig(config Config) *Server {
	if config.Port == 0 {
		config.Port = 8000
	}
	if config.ReportsDir == "" {
		config.ReportsDir = "reports"
	}

	return &Server{config: config}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/reports/", http.StripPrefix("/reports/", http.FileServer(http.Dir(s.config.ReportsDir))))
	mux.HandleFunc("/api/reports", s.handleList)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.HandleFunc("/", s.handleIndex)

	return mux
}

func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	logrus.Infof("serving reports from %s on http://localhost%s", s.config.ReportsDir, addr)
	return http.ListenAndServe(addr, s.Routes())
}

// handleIndex redirects to the newest HTML report, or explains that none
// exist yet.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	entries, err := s.listReports()
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to list reports: %v", err), http.StatusInternalServerError)
		return
	}
	if len(entries) == 0 {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "No reports generated yet. Run `reportcrew run <topic>` first.")
		return
	}

	http.Redirect(w, r, "/reports/"+entries[0].Path, http.StatusFound)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	entries, err := s.listReports()
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to list reports: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(entries); err != nil {
		logrus.Warnf("failed to encode report listing: %v", err)
	}
}

// listReports walks the reports directory for HTML files, newest first.
func (s *Server) listReports() ([]reportEntry, error) {
	var entries []reportEntry
	type stamped struct {
		entry reportEntry
		mtime int64
	}
	var found []stamped

	err := filepath.Walk(s.config.ReportsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		rel, err := filepath.Rel(s.config.ReportsDir, path)
		if err != nil {
			return err
		}

		backend := ""
		if parts := strings.SplitN(filepath.ToSlash(rel), "/", 2); len(parts) == 2 {
			backend = parts[0]
		}

		found = append(found, stamped{
			entry: reportEntry{
				Name:     info.Name(),
				Backend:  backend,
				Path:     filepath.ToSlash(rel),
				Modified: info.ModTime().Format("2006-01-02 15:04:05"),
			},
			mtime: info.ModTime().UnixNano(),
		})
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	sort.Slice(found, func(i, j int) bool { return found[i].mtime > found[j].mtime })
	for _, f := range found {
		entries = append(entries, f.entry)
	}
	return entries, nil
}
