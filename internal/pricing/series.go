// Package pricing holds the pure computation core of quotation building:
// branch price resolution, series classification and base-model selection.
// Nothing in this package performs I/O.
package pricing

// SeriesUnknown is returned for model names with no leading alphanumeric
// token. Models in the unknown series never participate in base-model
// selection.
const SeriesUnknown = "Unknown"

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// SeriesOf derives the product series from a model name: the leading run of
// letters, or of digits when the name starts with a digit. "Activa125" and
// "Activa110" both classify as "Activa"; "X1" and "X2" as "X". A name opening
// with punctuation or whitespace has no detectable series.
func SeriesOf(modelName string) string {
	if modelName == "" {
		return SeriesUnknown
	}
	var class func(byte) bool
	switch {
	case isLetter(modelName[0]):
		class = isLetter
	case isDigit(modelName[0]):
		class = isDigit
	default:
		return SeriesUnknown
	}
	end := 1
	for ; end < len(modelName); end++ {
		if !class(modelName[end]) {
			break
		}
	}
	return modelName[:end]
}
