// Package refine implements interactive corner adjustment.
//
// Corners are held in normalized space so they are independent of how large
// the photo is drawn. Touch input arrives in display space; HitTest and
// MoveCorner convert between the two using the display size passed with
// each call.
//
// A touch hits a corner within HitRadius display units. Dragging replaces
// only the hit corner, clamped into [0,1]. Corners are never re-ordered
// after an edit: dragging one corner across another leaves the labels
// semantically wrong, and rectification then produces a mirrored or folded
// page. The user fixes that by dragging back.
package refine
