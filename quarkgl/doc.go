// Package quarkgl is a small software 3D renderer used as the scene backend.
//
// It implements scene.Scene: primitives are tessellated into triangle meshes
// when added, transforms are applied per node, and Renderer rasterizes the
// scene into any Target (normally a viewport of an *image.RGBA frame).
//
// Pipeline (fixed):
//
//	Nodes → Model/View/Projection → NDC → Rasterization (depth tested) → Target.
//
// Shading is flat per triangle: ambient plus one directional key light with a
// Blinn-Phong highlight whose size and strength follow the material's
// roughness and metalness.
package quarkgl
