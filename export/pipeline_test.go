package export

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ByLCY/carousel/design"
	"github.com/ByLCY/carousel/render"
)

func testProject(visible int, hidden int) *design.Project {
	p := &design.Project{
		Title:  "Test Carousel",
		Author: design.Author{Name: "Ada", Handle: "@ada"},
		Design: design.DefaultDesign(),
	}
	p.Design.AspectRatio = design.RatioSquare
	for i := 0; i < visible+hidden; i++ {
		p.Slides = append(p.Slides, design.Slide{
			ID:      fmt.Sprintf("s%d", i+1),
			Type:    design.TypeContent,
			Content: design.Content{Title: fmt.Sprintf("Slide %d", i+1), Body: "body"},
			Visible: i < visible,
		})
	}
	return p
}

func TestExportZIPSkipsHiddenSlides(t *testing.T) {
	p := testProject(3, 2)
	pipeline := NewPipeline(render.NewRenderer("."))

	artifact, err := pipeline.Export(context.Background(), p, Options{Format: FormatZIP})
	require.NoError(t, err)
	require.Equal(t, 3, artifact.Pages)
	require.Equal(t, "application/zip", artifact.MIME)
	require.Equal(t, "Test_Carousel.zip", artifact.Filename)

	zr, err := zip.NewReader(bytes.NewReader(artifact.Data), int64(len(artifact.Data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 3)
	for i, f := range zr.File {
		require.Equal(t, fmt.Sprintf("slide_%d.png", i+1), f.Name)
	}
}

func TestExportSinglePNG(t *testing.T) {
	p := testProject(1, 0)
	pipeline := NewPipeline(render.NewRenderer("."))

	artifact, err := pipeline.Export(context.Background(), p, Options{Format: FormatPNG})
	require.NoError(t, err)
	require.Equal(t, "image/png", artifact.MIME)
	require.Equal(t, 1, artifact.Pages)
	// PNG magic number.
	require.True(t, bytes.HasPrefix(artifact.Data, []byte("\x89PNG")))
}

func TestExportPNGMultiSlideFallsBackToZIP(t *testing.T) {
	p := testProject(2, 0)
	pipeline := NewPipeline(render.NewRenderer("."))

	artifact, err := pipeline.Export(context.Background(), p, Options{Format: FormatPNG})
	require.NoError(t, err)
	require.Equal(t, "application/zip", artifact.MIME)
	require.Equal(t, 2, artifact.Pages)
}

func TestExportPDF(t *testing.T) {
	p := testProject(2, 0)
	pipeline := NewPipeline(render.NewRenderer("."))

	artifact, err := pipeline.Export(context.Background(), p, Options{Format: FormatPDF})
	require.NoError(t, err)
	require.Equal(t, "application/pdf", artifact.MIME)
	require.Equal(t, 2, artifact.Pages)
	require.True(t, bytes.HasPrefix(artifact.Data, []byte("%PDF")))
}

func TestExportSlideFilter(t *testing.T) {
	p := testProject(3, 0)
	pipeline := NewPipeline(render.NewRenderer("."))

	artifact, err := pipeline.Export(context.Background(), p, Options{
		Format:   FormatZIP,
		SlideIDs: []string{"s3", "s1"}, // sequence order wins over request order
	})
	require.NoError(t, err)
	require.Equal(t, 2, artifact.Pages)
}

func TestExportNoVisibleSlides(t *testing.T) {
	p := testProject(0, 2)
	pipeline := NewPipeline(render.NewRenderer("."))

	_, err := pipeline.Export(context.Background(), p, Options{Format: FormatZIP})
	require.Error(t, err)
	require.Equal(t, StageFailed, pipeline.Stage())
}

func TestExportSlideFilterTrimsIDs(t *testing.T) {
	p := testProject(3, 0)
	pipeline := NewPipeline(render.NewRenderer("."))

	artifact, err := pipeline.Export(context.Background(), p, Options{
		Format:   FormatZIP,
		SlideIDs: []string{" s1", "s2 "},
	})
	require.NoError(t, err)
	require.Equal(t, 2, artifact.Pages)
}

func TestExportProgressMonotonic(t *testing.T) {
	p := testProject(4, 0)
	pipeline := NewPipeline(render.NewRenderer("."))

	var reports []int
	_, err := pipeline.Export(context.Background(), p, Options{
		Format:   FormatZIP,
		Progress: func(pct int) { reports = append(reports, pct) },
	})
	require.NoError(t, err)
	require.NotEmpty(t, reports)
	last := -1
	for _, pct := range reports {
		require.GreaterOrEqual(t, pct, last, "progress went backwards: %v", reports)
		require.LessOrEqual(t, pct, 100)
		last = pct
	}
	require.Equal(t, 100, reports[len(reports)-1])
}

func TestExportCancellation(t *testing.T) {
	p := testProject(3, 0)
	pipeline := NewPipeline(render.NewRenderer("."))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := pipeline.Export(ctx, p, Options{Format: FormatZIP})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, StageFailed, pipeline.Stage())
}

func TestExportStageTransitions(t *testing.T) {
	p := testProject(2, 0)
	pipeline := NewPipeline(render.NewRenderer("."))
	require.Equal(t, StageIdle, pipeline.Stage())

	// Progress fires while staging, per raster, and after packaging, so the
	// observed stages cover the whole lifecycle in order.
	var observed []Stage
	_, err := pipeline.Export(context.Background(), p, Options{
		Format:   FormatZIP,
		Progress: func(int) { observed = append(observed, pipeline.Stage()) },
	})
	require.NoError(t, err)
	require.Equal(t, StageDone, pipeline.Stage())
	require.Equal(t, StageStaging, observed[0])
	require.Equal(t, StagePackaging, observed[len(observed)-1])
}

func TestExportRetryAfterFailure(t *testing.T) {
	p := testProject(1, 0)
	pipeline := NewPipeline(render.NewRenderer("."))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := pipeline.Export(ctx, p, Options{Format: FormatPNG})
	require.Error(t, err)
	require.Equal(t, StageFailed, pipeline.Stage())

	artifact, err := pipeline.Export(context.Background(), p, Options{Format: FormatPNG})
	require.NoError(t, err)
	require.Equal(t, 1, artifact.Pages)
	require.Equal(t, StageDone, pipeline.Stage())
}

func TestExportFailureIncludesSlide(t *testing.T) {
	p := testProject(2, 0)
	// Second slide references an unreadable local image, so staging fails.
	p.Slides[1].Content.ImageURL = "does-not-exist.png"
	pipeline := NewPipeline(render.NewRenderer(t.TempDir()))

	_, err := pipeline.Export(context.Background(), p, Options{Format: FormatZIP})
	require.Error(t, err)
	var capture *CaptureError
	require.True(t, errors.As(err, &capture))
	require.Equal(t, 1, capture.SlideIndex)
	require.Equal(t, "s2", capture.SlideID)
	require.Equal(t, StageFailed, pipeline.Stage())
}

func TestFilename(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"My Great   Post", "My_Great_Post.zip"},
		{"  padded  ", "padded.zip"},
		{"", "carousel.zip"},
		{"   ", "carousel.zip"},
		{"one", "one.zip"},
	}
	for _, tt := range tests {
		if got := Filename(tt.title, "zip"); got != tt.want {
			t.Errorf("Filename(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestStageString(t *testing.T) {
	stages := map[Stage]string{
		StageIdle:        "idle",
		StageStaging:     "staging",
		StageRasterizing: "rasterizing",
		StageEncoding:    "encoding",
		StagePackaging:   "packaging",
		StageDone:        "done",
		StageFailed:      "failed",
		Stage(99):        "unknown",
	}
	for s, want := range stages {
		if got := s.String(); got != want {
			t.Errorf("Stage(%d).String() = %q, want %q", s, got, want)
		}
	}
}
