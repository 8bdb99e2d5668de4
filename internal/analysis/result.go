package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Result is the structured verdict stored with every processed document.
type Result struct {
	DocumentType    string            `json:"document_type"`
	Summary         string            `json:"summary"`
	KeyTerms        []string          `json:"key_terms"`
	Risks           []string          `json:"risks"`
	Explanations    map[string]string `json:"explanations"`
	Recommendations []string          `json:"recommendations"`
}

const summaryLimit = 500

func staticResult() Result {
	return Result{
		DocumentType:    "Legal Document",
		Summary:         "Document uploaded and processed successfully. AI analysis requires API key configuration.",
		KeyTerms:        []string{"Terms and conditions", "Legal obligations", "Rights and responsibilities"},
		Risks:           []string{"Please review all terms carefully", "Consider legal consultation for complex matters"},
		Explanations:    map[string]string{"Legal Document": "A formal document with legal implications"},
		Recommendations: []string{"Read the document thoroughly", "Seek legal advice if needed"},
	}
}

func noTextResult() Result {
	return Result{
		DocumentType:    "Unknown",
		Summary:         "Text extraction did not produce any readable text, so the document could not be analyzed. It may be a scanned or image-only file.",
		KeyTerms:        []string{},
		Risks:           []string{"Document content could not be reviewed automatically"},
		Explanations:    map[string]string{"Text extraction": "No machine-readable text was found in the uploaded file"},
		Recommendations: []string{"Upload a text-based PDF or a clearer scan", "Review document manually"},
	}
}

func errorResult(err error) Result {
	return Result{
		DocumentType:    "Legal Document",
		Summary:         fmt.Sprintf("Document processed successfully. Analysis error: %s", err.Error()),
		KeyTerms:        []string{"Document uploaded"},
		Risks:           []string{"Analysis temporarily unavailable"},
		Explanations:    map[string]string{"Error": "AI analysis service temporarily unavailable"},
		Recommendations: []string{"Document uploaded successfully", "Manual review recommended"},
	}
}

// rawReplyResult wraps a reply that was not valid JSON.
func rawReplyResult(reply string) Result {
	return Result{
		DocumentType:    "Legal Document",
		Summary:         truncate(strings.TrimSpace(reply), summaryLimit),
		KeyTerms:        []string{"AI analysis completed"},
		Risks:           []string{"Please review the analysis"},
		Explanations:    map[string]string{"AI Response": "Analysis provided by AI"},
		Recommendations: []string{"Review the document carefully"},
	}
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "..."
}

// parseReply decodes the model reply. Code fences and prose around the JSON
// object are tolerated; list and map fields accept loose shapes.
func parseReply(reply string) (Result, bool) {
	body := extractObject(reply)
	if body == "" {
		return Result{}, false
	}

	var raw struct {
		DocumentType    looseString `json:"document_type"`
		Summary         looseString `json:"summary"`
		KeyTerms        looseList   `json:"key_terms"`
		Risks           looseList   `json:"risks"`
		Explanations    looseMap    `json:"explanations"`
		Recommendations looseList   `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return Result{}, false
	}
	res := Result{
		DocumentType:    strings.TrimSpace(string(raw.DocumentType)),
		Summary:         strings.TrimSpace(string(raw.Summary)),
		KeyTerms:        nonNil(raw.KeyTerms),
		Risks:           nonNil(raw.Risks),
		Explanations:    map[string]string(raw.Explanations),
		Recommendations: nonNil(raw.Recommendations),
	}
	if res.Explanations == nil {
		res.Explanations = map[string]string{}
	}
	if res.DocumentType == "" && res.Summary == "" && len(res.KeyTerms) == 0 && len(res.Risks) == 0 {
		return Result{}, false
	}
	return res, true
}

func extractObject(reply string) string {
	s := strings.TrimSpace(reply)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

func nonNil(l looseList) []string {
	if l == nil {
		return []string{}
	}
	return []string(l)
}

type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = looseString(str)
		return nil
	}
	*s = looseString(strings.Trim(string(b), `"`))
	return nil
}

// looseList accepts an array of scalars or objects, or a single string.
type looseList []string

func (l *looseList) UnmarshalJSON(b []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		var single string
		if err := json.Unmarshal(b, &single); err != nil {
			return nil
		}
		if strings.TrimSpace(single) != "" {
			*l = looseList{single}
		}
		return nil
	}
	out := make(looseList, 0, len(items))
	for _, item := range items {
		if v := scalarText(item); v != "" {
			out = append(out, v)
		}
	}
	*l = out
	return nil
}

// looseMap accepts an object whose values may be non-string.
type looseMap map[string]string

func (m *looseMap) UnmarshalJSON(b []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil {
		return nil
	}
	out := make(looseMap, len(obj))
	for k, v := range obj {
		out[k] = scalarText(v)
	}
	*m = out
	return nil
}

func scalarText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(string(raw))
}
