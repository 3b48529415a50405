package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	cvdnn "github.com/swdee/go-cvdnn"
	"github.com/swdee/go-cvdnn/postprocess"
	"github.com/swdee/go-cvdnn/source"
	"github.com/swdee/go-cvdnn/source/miniosrc"
	"github.com/swdee/go-cvdnn/source/s3src"
)

// ModelConfig describes a detection network and how to decode its output
type ModelConfig struct {
	// Model is a file path, s3://bucket/key or minio://bucket/key
	Model string `json:"model"`
	// Config is the optional companion file of Model, same URI forms
	Config       string  `json:"config"`
	Format       string  `json:"format"`
	Labels       string  `json:"labels"`
	InputWidth   int     `json:"input_width"`
	InputHeight  int     `json:"input_height"`
	Layout       string  `json:"layout"`
	Classes      int     `json:"classes"`
	BoxThreshold float32 `json:"box_threshold"`
	NMSThreshold float32 `json:"nms_threshold"`
	MaxObjects   int     `json:"max_objects"`
}

// defaultModelConfig is a COCO trained YOLOv8n ONNX export
func defaultModelConfig() ModelConfig {
	return ModelConfig{
		Model:        "../data/yolov8n.onnx",
		Format:       "onnx",
		Labels:       "../data/coco_80_labels_list.txt",
		InputWidth:   640,
		InputHeight:  640,
		Layout:       "yolov8",
		Classes:      80,
		BoxThreshold: 0.25,
		NMSThreshold: 0.45,
		MaxObjects:   64,
	}
}

// LoadModelConfig reads a JSON model description, fields it leaves out keep
// their defaults
func LoadModelConfig(path string) (ModelConfig, error) {

	cfg := defaultModelConfig()

	data, err := os.ReadFile(path)

	if err != nil {
		return cfg, fmt.Errorf("read file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal JSON: %w", err)
	}

	if cfg.Model == "" {
		return cfg, errors.New("model config has no model")
	}

	if cfg.InputWidth < 1 || cfg.InputHeight < 1 {
		return cfg, fmt.Errorf("invalid input size %dx%d", cfg.InputWidth, cfg.InputHeight)
	}

	return cfg, nil
}

// YOLOParams returns the post processing parameters of the model
func (c ModelConfig) YOLOParams() (postprocess.YOLOParams, error) {

	p := postprocess.YOLOParams{
		BoxThreshold:    c.BoxThreshold,
		NMSThreshold:    c.NMSThreshold,
		ObjectClassNum:  c.Classes,
		MaxObjectNumber: c.MaxObjects,
	}

	switch strings.ToLower(c.Layout) {
	case "", "yolov8":
		p.Layout = postprocess.LayoutYOLOv8
	case "yolov5":
		p.Layout = postprocess.LayoutYOLOv5
	default:
		return p, fmt.Errorf("unknown output layout %q", c.Layout)
	}

	return p, nil
}

// parseFormat maps a format name onto its cvdnn.Format
func parseFormat(name string) (cvdnn.Format, error) {

	for _, f := range []cvdnn.Format{cvdnn.FormatDarknet, cvdnn.FormatCaffe,
		cvdnn.FormatTensorflow, cvdnn.FormatONNX} {

		if strings.EqualFold(name, f.String()) {
			return f, nil
		}
	}

	return 0, fmt.Errorf("unknown model format %q", name)
}

// Remote holds the object store settings used for s3:// and minio:// URIs
type Remote struct {
	Region string
	MinIO  miniosrc.Config
}

// splitURI splits scheme://bucket/key, scheme is empty for plain paths
func splitURI(uri string) (scheme, bucket, key string, err error) {

	scheme, rest, ok := strings.Cut(uri, "://")

	if !ok {
		return "", "", uri, nil
	}

	bucket, key, ok = strings.Cut(rest, "/")

	if !ok || bucket == "" || key == "" {
		return "", "", "", fmt.Errorf("invalid object URI %q, want %s://bucket/key", uri, scheme)
	}

	return scheme, bucket, key, nil
}

// fetch reads the whole of uri into memory so every network in the pool is
// built from the same bytes without refetching
func fetch(ctx context.Context, uri string, remote Remote) (cvdnn.Source, error) {

	if uri == "" {
		return nil, nil
	}

	scheme, bucket, key, err := splitURI(uri)

	if err != nil {
		return nil, err
	}

	var src cvdnn.Source

	switch scheme {
	case "":
		f, err := source.Open(key)

		if err != nil {
			return nil, err
		}

		defer closeQuietly(f)
		src = f

	case "s3":
		client, err := s3src.NewClient(ctx, remote.Region)

		if err != nil {
			return nil, err
		}

		src = s3src.New(ctx, client, bucket, key)

	case "minio":
		client, err := miniosrc.NewClient(remote.MinIO)

		if err != nil {
			return nil, err
		}

		src = miniosrc.New(ctx, client, bucket, key)

	default:
		return nil, fmt.Errorf("unsupported URI scheme %q", scheme)
	}

	data, err := src.Bytes()

	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", uri, err)
	}

	// copy out as mapped file bytes are unmapped on close
	return cvdnn.Buffer(append([]byte(nil), data...)), nil
}

func closeQuietly(c io.Closer) {
	_ = c.Close()
}
