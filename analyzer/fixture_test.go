package analyzer

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/nithin2k5/yoloGenerator/media"
	"github.com/nithin2k5/yoloGenerator/models"
	"github.com/nithin2k5/yoloGenerator/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type fakeDatasets struct {
	datasets map[string]*models.Dataset
	images   map[string][]models.DatasetImage
}

func (f *fakeDatasets) GetDataset(ctx context.Context, id string) (*models.Dataset, error) {
	d, ok := f.datasets[id]
	if !ok {
		return nil, repository.ErrDatasetNotFound
	}
	return d, nil
}

func (f *fakeDatasets) GetDatasetImages(ctx context.Context, id string) ([]models.DatasetImage, error) {
	if _, ok := f.datasets[id]; !ok {
		return nil, repository.ErrDatasetNotFound
	}
	out := make([]models.DatasetImage, len(f.images[id]))
	copy(out, f.images[id])
	return out, nil
}

// keyed by image id
type fakeAnnotations map[string]*models.Annotation

func (f fakeAnnotations) GetAnnotation(ctx context.Context, datasetID, imageID string) (*models.Annotation, error) {
	return f[imageID], nil
}

const testDatasetID = "ds-1"

type fixture struct {
	t           *testing.T
	store       *media.LocalStorage
	dir         string
	datasets    *fakeDatasets
	annotations fakeAnnotations
}

func newFixture(t *testing.T, classes ...string) *fixture {
	t.Helper()
	store, err := media.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	dir, err := store.EnsureDataset(testDatasetID)
	require.NoError(t, err)

	return &fixture{
		t:     t,
		store: store,
		dir:   dir,
		datasets: &fakeDatasets{
			datasets: map[string]*models.Dataset{
				testDatasetID: {
					ID:      testDatasetID,
					Name:    "traffic",
					Classes: datatypes.NewJSONType(classes),
				},
			},
			images: map[string][]models.DatasetImage{},
		},
		annotations: fakeAnnotations{},
	}
}

func strPtr(s string) *string { return &s }

func writePNG(t *testing.T, path string, w, h int, seed uint8) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = seed
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

// imageOpts describe one fixture image
type imageOpts struct {
	width, height       int
	seed                uint8
	split               string
	annWidth, annHeight int // annotation dimensions, default to the image size
	boxes               []models.Box
	noAnnotation        bool
	unannotated         bool
}

// addImage writes a PNG and its label file and registers the records
func (f *fixture) addImage(name string, o imageOpts) models.DatasetImage {
	f.t.Helper()
	path := filepath.Join(f.dir, media.ImagesSubDir, name)
	writePNG(f.t, path, o.width, o.height, o.seed)

	img := models.DatasetImage{
		ID:        "img-" + name,
		DatasetID: testDatasetID,
		Filename:  name,
		Path:      path,
		Annotated: !o.unannotated,
	}
	if o.split != "" {
		img.Split = strPtr(o.split)
	}
	f.datasets.images[testDatasetID] = append(f.datasets.images[testDatasetID], img)

	if o.noAnnotation || o.unannotated {
		return img
	}

	annW, annH := o.annWidth, o.annHeight
	if annW == 0 {
		annW = o.width
	}
	if annH == 0 {
		annH = o.height
	}
	f.annotations[img.ID] = &models.Annotation{
		ID:        models.AnnotationID(testDatasetID, img.ID),
		DatasetID: testDatasetID,
		ImageID:   img.ID,
		ImageName: name,
		Width:     annW,
		Height:    annH,
		Boxes:     datatypes.NewJSONType(o.boxes),
		Split:     img.Split,
	}

	data, err := media.EncodeYOLOLabels(o.boxes, annW, annH)
	require.NoError(f.t, err)
	labelPath := filepath.Join(f.dir, media.LabelsSubDir, media.LabelFilename(name))
	require.NoError(f.t, os.WriteFile(labelPath, data, 0644))
	return img
}

func (f *fixture) analyzer(opts Options) *Analyzer {
	return New(f.datasets, f.annotations, media.NewImagingDecoder(), f.store, opts)
}

func (f *fixture) analyze(opts Options) *Analysis {
	f.t.Helper()
	a, err := f.analyzer(opts).AnalyzeDataset(context.Background(), testDatasetID)
	require.NoError(f.t, err)
	require.NotNil(f.t, a)
	return a
}

func mkBox(x, y, w, h float64, classID int, className string) models.Box {
	return models.Box{X: x, Y: y, Width: w, Height: h, ClassID: classID, ClassName: className, Confidence: 1.0}
}
