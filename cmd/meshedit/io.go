package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/printforge/meshedit"
	"github.com/printforge/meshedit/internal/logger"
	"github.com/printforge/meshedit/meshio"
	"go.uber.org/zap"
)

func loadMesh(path string) (*meshedit.Mesh, error) {
	var (
		m   *meshedit.Mesh
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".stl":
		m, err = meshio.ReadSTL(path)
	case ".obj":
		m, err = meshio.ReadOBJ(path)
	default:
		return nil, fmt.Errorf("unsupported mesh format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	logger.Debug("mesh loaded",
		zap.String("path", path),
		zap.Int("vertices", m.VertexCount()),
		zap.Int("faces", m.FaceCount()))
	return m, nil
}

func saveMesh(path string, m *meshedit.Mesh) error {
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".stl":
		err = meshio.WriteSTL(path, m)
	case ".obj":
		err = meshio.WriteOBJ(path, m)
	default:
		return fmt.Errorf("unsupported mesh format %q", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	logger.Info("mesh written",
		zap.String("path", path),
		zap.Int("vertices", m.VertexCount()),
		zap.Int("faces", m.FaceCount()))
	return nil
}

func reportStats(s meshedit.Stats) {
	fields := []zap.Field{
		zap.String("op", s.Op),
		zap.Int("vertices_before", s.VerticesBefore),
		zap.Int("vertices_after", s.VerticesAfter),
		zap.Int("faces_before", s.FacesBefore),
		zap.Int("faces_after", s.FacesAfter),
		zap.Bool("watertight_before", s.WatertightBefore),
		zap.Bool("watertight_after", s.WatertightAfter),
	}
	if s.VolumeDeltaValid {
		fields = append(fields, zap.Float64("volume_delta", s.VolumeDelta))
	}
	if s.EngineUsed != "" {
		fields = append(fields, zap.String("engine", s.EngineUsed))
	}
	if s.Failed {
		logger.Warn("operation failed; mesh returned unmodified", fields...)
	} else {
		logger.Info("operation complete", fields...)
	}
	for _, w := range s.Warnings {
		logger.Warn(w, zap.String("op", s.Op))
	}
}
