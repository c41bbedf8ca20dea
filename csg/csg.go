// Package csg implements the boolean engines behind mesh subtraction,
// union and intersection. Meshes are lifted to signed distance fields
// with angle-weighted pseudo-normals, combined with min/max distance
// algebra, and the result surface is reconstructed by marching cubes.
// A voxel-space engine serves as the blocky last resort.
package csg

import "github.com/printforge/meshedit"

// DefaultChain returns the standard fallback order: octree marching
// cubes, uniform marching cubes, then the voxel engine.
func DefaultChain() meshedit.Chain {
	return meshedit.Chain{
		NewOctreeEngine(0),
		NewUniformEngine(0),
		NewVoxelEngine(0),
	}
}
