// Package language owns the caption language set and code normalization.
//
// Script translations, caption tracks, and configuration all key languages by
// ISO 639-1 code. Inputs such as "en-US", "zh-Hans" or "fra" are reduced to
// their base code here so every consumer agrees on one spelling.
package language
