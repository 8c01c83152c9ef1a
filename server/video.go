package server

import (
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/streamplay-cli/streamplay/log"
	"github.com/streamplay-cli/streamplay/stream"
)

// contentTypes maps every servable extension to its MIME type.
var contentTypes = map[string]string{
	".mp4":  stream.MimeMP4,
	".m4s":  stream.MimeMP4,
	".mpd":  stream.MimeDASH,
	".webm": stream.MimeWebM,
	".m3u8": stream.MimeHLS,
	".ts":   stream.MimeMPEGTS,
}

// ContentType returns the MIME type served for name and whether the extension is allowed.
func ContentType(name string) (string, bool) {
	ct, ok := contentTypes[strings.ToLower(path.Ext(name))]
	return ct, ok
}

func (s *Server) video(w http.ResponseWriter, r *http.Request) {
	name := path.Clean("/" + chi.URLParam(r, "*"))

	info, err := s.opts.Root.Stat(name)
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "Video not found", http.StatusNotFound)
			return
		}
		log.Errorf("stat %s: %v", name, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if path.Ext(name) == "" || info.IsDir() {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	ct, ok := ContentType(name)
	if !ok {
		http.Error(w, "Invalid file type", http.StatusBadRequest)
		return
	}

	f, err := s.opts.Root.Open(name)
	if err != nil {
		log.Errorf("open %s: %v", name, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", ct)
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
