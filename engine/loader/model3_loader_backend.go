package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/Carmen-Shannon/oxy-l2d/engine/model"
)

var (
	errUnsupportedVersion = errors.New("unsupported model3 version: must be 3")
	errMissingMoc         = errors.New("model3 manifest has no Moc reference")
)

// model3Document mirrors the parts of a model3.json manifest the worker uses.
type model3Document struct {
	Version        int `json:"Version"`
	FileReferences struct {
		Moc      string                    `json:"Moc"`
		Textures []string                  `json:"Textures"`
		Physics  string                    `json:"Physics"`
		Motions  map[string][]model3Motion `json:"Motions"`
	} `json:"FileReferences"`
}

type model3Motion struct {
	File        string   `json:"File"`
	FadeInTime  *float64 `json:"FadeInTime"`
	FadeOutTime *float64 `json:"FadeOutTime"`
}

// Fade durations applied when a motion entry does not declare its own.
const (
	defaultFadeIn  = 0.5
	defaultFadeOut = 0.5
)

// model3LoaderBackendImpl is the loaderBackend for model3.json manifests.
type model3LoaderBackendImpl struct {
	readFile readFileFunc
}

var _ loaderBackend = &model3LoaderBackendImpl{}

// newModel3LoaderBackend creates a manifest backend reading files through readFile.
//
// Parameters:
//   - readFile: reads a whole file by name
//
// Returns:
//   - loaderBackend: the manifest backend
func newModel3LoaderBackend(readFile readFileFunc) loaderBackend {
	return &model3LoaderBackendImpl{readFile: readFile}
}

func (b *model3LoaderBackendImpl) Load(manifestPath string) (model.Model, error) {
	data, err := b.readFile(manifestPath)
	if err != nil {
		return nil, err
	}

	var doc model3Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if doc.Version != 3 {
		return nil, errUnsupportedVersion
	}
	refs := doc.FileReferences
	if refs.Moc == "" {
		return nil, errMissingMoc
	}

	options := []model.ModelBuilderOption{
		model.WithName(modelName(manifestPath)),
		model.WithPath(manifestPath),
		model.WithMoc(refs.Moc),
		model.WithTextures(refs.Textures...),
		model.WithPhysics(refs.Physics),
	}
	for group, entries := range refs.Motions {
		motions := make([]model.Motion, 0, len(entries))
		for _, e := range entries {
			m := model.Motion{File: e.File, FadeIn: defaultFadeIn, FadeOut: defaultFadeOut}
			if e.FadeInTime != nil {
				m.FadeIn = *e.FadeInTime
			}
			if e.FadeOutTime != nil {
				m.FadeOut = *e.FadeOutTime
			}
			motions = append(motions, m)
		}
		options = append(options, model.WithMotionGroup(group, motions...))
	}

	return model.NewModel(options...), nil
}

// modelName derives the model name from its manifest file name.
func modelName(manifestPath string) string {
	base := path.Base(strings.ReplaceAll(manifestPath, "\\", "/"))
	if len(base) > len(ManifestSuffix) && strings.EqualFold(base[len(base)-len(ManifestSuffix):], ManifestSuffix) {
		return base[:len(base)-len(ManifestSuffix)]
	}
	return base
}
