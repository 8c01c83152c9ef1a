package stream

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/bluenviron/gohlslib/v2/pkg/playlist"
	"github.com/samber/lo"
)

// MaxManifestBytes bounds how much of a manifest Inspect downloads.
const MaxManifestBytes = 2 << 20

var ErrManifestTooLarge = errors.New("manifest exceeds size limit")

// Variant is a single rendition advertised by a manifest.
type Variant struct {
	Bandwidth  int    `json:"bandwidth"`
	Resolution string `json:"resolution,omitempty"`
	Codecs     string `json:"codecs,omitempty"`
}

// Manifest summarises a downloaded HLS playlist or DASH MPD.
type Manifest struct {
	Protocol Protocol `json:"protocol"`
	// Kind is "multivariant" or "media" for HLS and "static" or "dynamic" for DASH.
	Kind           string        `json:"kind"`
	Live           bool          `json:"live"`
	Variants       []Variant     `json:"variants,omitempty"`
	Segments       int           `json:"segments,omitempty"`
	TargetDuration time.Duration `json:"target_duration,omitempty"`
	Duration       time.Duration `json:"duration,omitempty"`
	AdaptationSets int           `json:"adaptation_sets,omitempty"`
}

// Summary is a one line description for the player panel.
func (m Manifest) Summary() string {
	mode := "VOD"
	if m.Live {
		mode = "live"
	}

	switch {
	case len(m.Variants) > 0:
		top := lo.MaxBy(m.Variants, func(a, b Variant) bool { return a.Bandwidth > b.Bandwidth })
		s := fmt.Sprintf("%s %s, %d variants, up to %d kbit/s", m.Protocol.Label(), mode, len(m.Variants), top.Bandwidth/1000)
		if top.Resolution != "" {
			s += " @ " + top.Resolution
		}
		return s
	case m.Segments > 0:
		return fmt.Sprintf("%s %s, %d segments (%s)", m.Protocol.Label(), mode, m.Segments, m.Duration.Round(time.Second))
	default:
		return fmt.Sprintf("%s %s", m.Protocol.Label(), mode)
	}
}

// Inspect downloads the manifest behind req and summarises it.
func Inspect(ctx context.Context, client *http.Client, req Request) (Manifest, error) {
	if client == nil {
		client = http.DefaultClient
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return Manifest{}, err
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return Manifest{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Manifest{}, fmt.Errorf("fetch manifest: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxManifestBytes+1))
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	if len(data) > MaxManifestBytes {
		return Manifest{}, ErrManifestTooLarge
	}

	return ParseManifest(req.Protocol, data)
}

// ParseManifest summarises raw manifest bytes of the given protocol.
func ParseManifest(p Protocol, data []byte) (Manifest, error) {
	switch p {
	case HLS:
		return parseHLS(data)
	case DASH:
		return parseMPD(data)
	default:
		return Manifest{}, fmt.Errorf("%w: %q", ErrUnknownProtocol, p)
	}
}

func parseHLS(data []byte) (Manifest, error) {
	pl, err := playlist.Unmarshal(data)
	if err != nil {
		return Manifest{}, fmt.Errorf("parse playlist: %w", err)
	}

	m := Manifest{Protocol: HLS}

	switch pl := pl.(type) {
	case *playlist.Multivariant:
		m.Kind = "multivariant"
		m.Variants = lo.Map(pl.Variants, func(v *playlist.MultivariantVariant, _ int) Variant {
			return Variant{
				Bandwidth:  v.Bandwidth,
				Resolution: v.Resolution,
				Codecs:     strings.Join(v.Codecs, ","),
			}
		})
	case *playlist.Media:
		m.Kind = "media"
		m.Live = !pl.Endlist
		m.Segments = len(pl.Segments)
		m.TargetDuration = time.Duration(pl.TargetDuration) * time.Second
		for _, seg := range pl.Segments {
			m.Duration += seg.Duration
		}
	}

	return m, nil
}

type mpdDocument struct {
	XMLName  xml.Name `xml:"MPD"`
	Type     string   `xml:"type,attr"`
	Duration string   `xml:"mediaPresentationDuration,attr"`
	Periods  []struct {
		AdaptationSets []struct {
			MimeType        string `xml:"mimeType,attr"`
			Representations []struct {
				Bandwidth int    `xml:"bandwidth,attr"`
				Width     int    `xml:"width,attr"`
				Height    int    `xml:"height,attr"`
				Codecs    string `xml:"codecs,attr"`
			} `xml:"Representation"`
		} `xml:"AdaptationSet"`
	} `xml:"Period"`
}

func parseMPD(data []byte) (Manifest, error) {
	var doc mpdDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return Manifest{}, fmt.Errorf("parse mpd: %w", err)
	}

	m := Manifest{
		Protocol: DASH,
		Kind:     lo.Ternary(doc.Type == "", "static", doc.Type),
		Live:     doc.Type == "dynamic",
	}

	if doc.Duration != "" {
		d, err := parseISODuration(doc.Duration)
		if err != nil {
			return Manifest{}, err
		}
		m.Duration = d
	}

	for _, period := range doc.Periods {
		m.AdaptationSets += len(period.AdaptationSets)
		for _, set := range period.AdaptationSets {
			for _, rep := range set.Representations {
				v := Variant{Bandwidth: rep.Bandwidth, Codecs: rep.Codecs}
				if rep.Width > 0 && rep.Height > 0 {
					v.Resolution = fmt.Sprintf("%dx%d", rep.Width, rep.Height)
				}
				m.Variants = append(m.Variants, v)
			}
		}
	}

	return m, nil
}

var isoDurationPattern = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)

// parseISODuration handles the subset of ISO 8601 durations used by MPD attributes, e.g. PT1H2M3.5S.
func parseISODuration(s string) (time.Duration, error) {
	match := isoDurationPattern.FindStringSubmatch(s)
	if match == nil || s == "P" || s == "PT" {
		return 0, fmt.Errorf("invalid duration %q", s)
	}

	var total time.Duration
	units := []time.Duration{24 * time.Hour, time.Hour, time.Minute}
	for i, unit := range units {
		if match[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(match[i+1])
		if err != nil {
			return 0, err
		}
		total += time.Duration(n) * unit
	}

	if match[4] != "" {
		secs, err := strconv.ParseFloat(match[4], 64)
		if err != nil {
			return 0, err
		}
		total += time.Duration(math.Round(secs * float64(time.Second)))
	}

	return total, nil
}
