// Package deskew estimates and corrects rotational skew in scanned pages.
//
// The estimate comes from the minimum-area rectangle enclosing the dark
// (foreground) pixels of a blurred, Otsu-binarised copy of the page.
// Correction rotates the page about its centre with Catmull-Rom
// resampling, replicating edge pixels into regions exposed by the rotation.
//
// Angles are in degrees. A positive correction rotates the page
// counter-clockwise as displayed.
package deskew
