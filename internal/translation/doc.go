// Package translation sends recognized text to the translation service
// with automatic source-language detection. Failures degrade to a
// sentinel string instead of failing the pipeline run.
package translation
