// Package buffer provides a reusable float64 buffer and a sync.Pool-backed
// pool of them, sized for one correlogram row at a time. ncc.MultiChannel's
// stacking step uses it to borrow rotation scratch for a padded
// (channel, template) row instead of allocating one per pair.
package buffer
