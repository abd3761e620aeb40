// Package locale holds the display strings for diagrams and diagnostics.
package locale

import (
	"strings"

	"golang.org/x/text/language"
)

// Labels is the set of user-facing strings for one display language.
// Fields ending in a format verb are used with fmt.Sprintf.
type Labels struct {
	Tag            string   `json:"tag"`
	Title          string   `json:"title"`
	XLabel         string   `json:"x_label"`
	YLabel         string   `json:"y_label"`
	DepthUnit      string   `json:"depth_unit"`
	Placeholder    string   `json:"placeholder"`
	NoValid        string   `json:"no_valid"`
	MissingColumns string   `json:"missing_columns"` // %s file name
	ReadFailed     string   `json:"read_failed"`     // %s file name, %v error
	EmptyProfile   string   `json:"empty_profile"`   // %s file name
	FontMissing    string   `json:"font_missing"`    // %s font path
	OutOfRange     string   `json:"out_of_range"`    // %d level limit
	Instructions   []string `json:"instructions"`
	UploadPrompt   string   `json:"upload_prompt"`
}

var English = Labels{
	Tag:            "en",
	Title:          "T-S Diagram",
	XLabel:         "Salinity (PSU)",
	YLabel:         "Temperature (°C)",
	DepthUnit:      "m",
	Placeholder:    "Upload CSV files to display a multi-profile T-S diagram.",
	NoValid:        "None of the uploaded files contained a usable profile.",
	MissingColumns: "'%s' must contain 'Depth', 'Temperature' and 'Salinity' columns.",
	ReadFailed:     "Failed to read '%s': %v",
	EmptyProfile:   "'%s' has no valid depth/temperature/salinity rows.",
	FontMissing:    "Font file %s could not be loaded; some characters may not render.",
	OutOfRange:     "The salinity/temperature range is too wide to draw isopycnals (limit %d lines); check the uploaded values.",
	Instructions: []string{
		"Copy only the depth, temperature and salinity columns from your data center export into a CSV file.",
		"Upload the file. Several files can be uploaded at once for comparison.",
	},
	UploadPrompt: "Upload CSV files",
}

var Korean = Labels{
	Tag:            "ko",
	Title:          "수온-염분도",
	XLabel:         "염분 (PSU)",
	YLabel:         "수온 (°C)",
	DepthUnit:      "m",
	Placeholder:    "CSV 파일을 업로드하면 다중 T-S 다이어그램이 표시됩니다.",
	NoValid:        "업로드한 파일 중 사용할 수 있는 자료가 없습니다.",
	MissingColumns: "'%s' 파일에는 'Depth', 'Temperature', 'Salinity' 열이 모두 있어야 합니다.",
	ReadFailed:     "'%s' 읽기 실패: %v",
	EmptyProfile:   "'%s' 파일에 유효한 깊이/수온/염분 자료가 없습니다.",
	FontMissing:    "한글 폰트 파일(%s)을 찾을 수 없습니다. 일부 글자가 깨질 수 있습니다.",
	OutOfRange:     "염분/수온 범위가 너무 넓어 등밀도선을 그릴 수 없습니다(최대 %d개). 업로드한 값을 확인하세요.",
	Instructions: []string{
		"해양자료센터에서 받은 파일에서 깊이, 수온, 염분 자료만을 복사하여 CSV 파일을 만듭니다.",
		"제작된 파일을 업로드하세요. 여러 파일을 업로드하여 비교도 가능합니다.",
	},
	UploadPrompt: "CSV 파일 업로드",
}

var (
	catalog = []Labels{English, Korean}
	matcher = language.NewMatcher([]language.Tag{language.English, language.Korean})
)

// For returns the labels for a BCP 47 language tag such as "ko" or "en-US".
// Unknown or unparseable tags fall back to English.
func For(tag string) Labels {
	t, err := language.Parse(strings.TrimSpace(tag))
	if err != nil {
		return English
	}
	_, idx, _ := matcher.Match(t)
	return catalog[idx]
}

// Negotiate picks labels from an HTTP Accept-Language header value.
func Negotiate(acceptLanguage string) Labels {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return English
	}
	_, idx, _ := matcher.Match(tags...)
	return catalog[idx]
}
