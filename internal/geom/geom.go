// Package geom provides the 2D geometry layer for scene perception:
// polygons, circles, bounding boxes, vertex ordering and corner angles.
//
// Scenes use a 100x100 unit frame with the Y axis growing downward
// (screen convention). All shape-local coordinates (vertices, bounding
// boxes) are relative to the shape's position.
package geom

import "math"

// SceneSize is the edge length of the normalized scene frame.
const SceneSize = 100.0

// Vec is a 2D point or displacement in scene units.
type Vec struct {
	X, Y float64
}

// Add returns v+w.
func (v Vec) Add(w Vec) Vec { return Vec{v.X + w.X, v.Y + w.Y} }

// Sub returns v-w.
func (v Vec) Sub(w Vec) Vec { return Vec{v.X - w.X, v.Y - w.Y} }

// Scale returns v scaled by s.
func (v Vec) Scale(s float64) Vec { return Vec{v.X * s, v.Y * s} }

// Len returns the Euclidean length of v.
func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }

// Dist returns the Euclidean distance between v and w.
func (v Vec) Dist(w Vec) float64 { return v.Sub(w).Len() }

// Rect is an axis-aligned bounding box. X and Y are the top-left corner
// (minimum coordinates in the y-down frame).
type Rect struct {
	X, Y, W, H float64
}

// MinX returns the left edge of r.
func (r Rect) MinX() float64 { return r.X }

// MaxX returns the right edge of r.
func (r Rect) MaxX() float64 { return r.X + r.W }

// MinY returns the top edge of r.
func (r Rect) MinY() float64 { return r.Y }

// MaxY returns the bottom edge of r.
func (r Rect) MaxY() float64 { return r.Y + r.H }

// Center returns the midpoint of r.
func (r Rect) Center() Vec { return Vec{r.X + r.W/2, r.Y + r.H/2} }

// Translate returns r shifted by v.
func (r Rect) Translate(v Vec) Rect { return Rect{r.X + v.X, r.Y + v.Y, r.W, r.H} }
