package liveset

import (
	"bufio"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/beevik/etree"
	"golang.org/x/sync/errgroup"
)

const (
	rootTag        = "Ableton"
	liveSetTag     = "LiveSet"
	tracksTag      = "Tracks"
	masterTrackTag = "MasterTrack"
	tempoPath      = "DeviceChain/Mixer/Tempo/Manual"
)

// Load reads and extracts the Live set at path.
func Load(path string) (*LiveSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open live set: %w", err)
	}
	defer func() { _ = f.Close() }()

	return parse(f, path)
}

// Parse extracts a Live set from a gzip-compressed XML stream.
func Parse(r io.Reader) (*LiveSet, error) {
	return parse(r, "")
}

func parse(r io.Reader, path string) (*LiveSet, error) {
	zr, err := gzip.NewReader(bufio.NewReader(r))
	if err != nil {
		return nil, &FormatError{Path: path, Reason: "cannot decompress", Err: ErrNotGzip}
	}
	defer func() { _ = zr.Close() }()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(zr); err != nil {
		if errors.Is(err, gzip.ErrHeader) || errors.Is(err, gzip.ErrChecksum) {
			return nil, &FormatError{Path: path, Reason: "cannot decompress", Err: ErrNotGzip}
		}
		return nil, &FormatError{Path: path, Reason: err.Error(), Err: ErrBadXML}
	}

	live := liveSetElement(doc)
	if live == nil {
		return nil, &FormatError{Path: path, Reason: "no LiveSet element", Err: ErrNotLiveSet}
	}
	tracks := live.SelectElement(tracksTag)
	if tracks == nil {
		return nil, &FormatError{Path: path, Reason: "no Tracks element", Err: ErrNotLiveSet}
	}

	set := &LiveSet{Path: path, Tracks: []Track{}}
	if root := doc.Root(); root != nil && root.Tag == rootTag {
		set.Creator = optAttr(root, "Creator")
		set.MajorVersion = optAttr(root, "MajorVersion")
		set.MinorVersion = optAttr(root, "MinorVersion")
	}
	if master := live.SelectElement(masterTrackTag); master != nil {
		set.Tempo = optFloat(master, tempoPath)
		set.TimeSignatures = masterTimeSignatures(master)
	}

	for i, te := range tracks.ChildElements() {
		t, err := ExtractTrack(te)
		if err != nil {
			return nil, fmt.Errorf("track %d: %w", i+1, err)
		}
		set.Tracks = append(set.Tracks, t)
	}
	return set, nil
}

// liveSetElement finds the LiveSet element, normally the only child of the
// Ableton root. A bare LiveSet root is accepted too.
func liveSetElement(doc *etree.Document) *etree.Element {
	root := doc.Root()
	if root == nil {
		return nil
	}
	if root.Tag == liveSetTag {
		return root
	}
	return root.SelectElement(liveSetTag)
}

func optAttr(e *etree.Element, key string) *string {
	attr := e.SelectAttr(key)
	if attr == nil {
		return nil
	}
	v := attr.Value
	return &v
}

// LoadMany loads several sets concurrently. Results are in argument order.
// The first failure cancels the remaining loads and is returned.
func LoadMany(ctx context.Context, paths ...string) ([]*LiveSet, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]*LiveSet, len(paths))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			set, err := Load(path)
			if err != nil {
				return err
			}
			results[i] = set
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Track returns the track at a 1-based index.
func (s *LiveSet) Track(index int) (*Track, error) {
	if index < 1 || index > len(s.Tracks) {
		return nil, &TrackIndexError{Path: s.Path, Index: index, Count: len(s.Tracks)}
	}
	return &s.Tracks[index-1], nil
}
