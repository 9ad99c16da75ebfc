package apk

// AlignmentExtra exposes alignmentExtra for tests.
var AlignmentExtra = alignmentExtra

// WithExtractNativeLibs exposes withExtractNativeLibs for tests.
var WithExtractNativeLibs = withExtractNativeLibs
