package models

import "fmt"

// LanguageKey identifies one supported UI language profile.
type LanguageKey string

const (
	LanguageEnglish LanguageKey = "english"
	LanguageKorean  LanguageKey = "korean"
)

// Labels holds every UI string rendered for one language. All fields are
// required; Validate rejects profiles with blanks so a missing translation
// is a startup failure rather than an empty label in production.
type Labels struct {
	Greeting        string `json:"greeting"`
	ChatGreeting    string `json:"chat_greeting"`
	SelectLanguage  string `json:"select_language"`
	UploadFile      string `json:"upload_file"`
	OriginalFile    string `json:"original_file"`
	Translation     string `json:"translation"`
	PageLimitWarn   string `json:"page_limit_warning"`
	Spinner         string `json:"spinner"`
	ModeSelector    string `json:"mode_selector"`
	CopyToClipboard string `json:"copy_to_clipboard"`
	SuccessCopy     string `json:"success_copy"`
	URLPrompt       string `json:"url_prompt"`
	MessagePrompt   string `json:"message_prompt"`
	ExportPDF       string `json:"export_pdf"`
	TranslateFailed string `json:"translate_failed"`
	ChatFailed      string `json:"chat_failed"`
}

// Prompts holds the system instruction templates for one language.
type Prompts struct {
	FormatSystem         string
	TranslationSystem    string
	TranslationAlignment string
}

// LanguageProfile bundles the labels and prompt templates for one language.
type LanguageProfile struct {
	Key     LanguageKey `json:"key"`
	Labels  Labels      `json:"labels"`
	Prompts Prompts     `json:"-"`
}

// languages is the static profile table, read-only after process start.
var languages = map[LanguageKey]*LanguageProfile{
	LanguageEnglish: {
		Key: LanguageEnglish,
		Labels: Labels{
			Greeting:        "Good Day! How can I help?",
			ChatGreeting:    "Hello, I'm a bot. How can I help you?",
			SelectLanguage:  "Select Language",
			UploadFile:      "Upload an article",
			OriginalFile:    "Original File",
			Translation:     "Translation",
			PageLimitWarn:   "At the moment the upload is limited to %d pages. Try again with a shorter file!",
			Spinner:         "Loading...",
			ModeSelector:    "Choose AI function",
			CopyToClipboard: "Copy to Clipboard",
			SuccessCopy:     "Text copied to clipboard!",
			URLPrompt:       "Please enter a website URL",
			MessagePrompt:   "Type your message here...",
			ExportPDF:       "Download as PDF",
			TranslateFailed: "Something went wrong while translating. Please try again.",
			ChatFailed:      "Something went wrong while answering. Please try again.",
		},
		Prompts: Prompts{
			FormatSystem:         "You are going to receive a long string of text extracted from a PDF file. The formatting was lost during extraction; restore the document structure (headings, paragraphs, lists) so it reads well.",
			TranslationSystem:    "You are tasked with being an excellent English-Korean translator. Your objective is to translate the provided document extracted from a PDF file.",
			TranslationAlignment: "Present the translation in semantic paragraphs, matching each section of the original text with its corresponding translated segment. Ensure clarity by separating the original text into meaningful units followed by the translation of each respective part.",
		},
	},
	LanguageKorean: {
		Key: LanguageKorean,
		Labels: Labels{
			Greeting:        "무엇을 도와드릴까요?",
			ChatGreeting:    "안녕하세요, 챗봇입니다. 무엇을 도와드릴까요?",
			SelectLanguage:  "언어 선택",
			UploadFile:      "원하시는 파일을 선택해주세요",
			OriginalFile:    "업로드 파일",
			Translation:     "번역",
			PageLimitWarn:   "업로드 가능한 페이지는 최대 %d 페이지 입니다. 다른 파일을 선택해주세요",
			Spinner:         "처리중...",
			ModeSelector:    "원하시는 기능을 선택해주세요",
			CopyToClipboard: "클립보드에 복사",
			SuccessCopy:     "텍스트가 클립보드에 복사되었습니다!",
			URLPrompt:       "웹사이트 URL을 입력해주세요",
			MessagePrompt:   "메시지를 입력하세요...",
			ExportPDF:       "PDF로 내려받기",
			TranslateFailed: "번역 중 문제가 발생했습니다. 다시 시도해주세요.",
			ChatFailed:      "답변 중 문제가 발생했습니다. 다시 시도해주세요.",
		},
		Prompts: Prompts{
			FormatSystem:         "PDF 파일에서 추출된 긴 문자열 텍스트를 받게 됩니다. 추출 과정에서 서식이 누락되었으므로 제목, 단락, 목록 등 문서 구조를 복원해 읽기 좋게 만들어 주세요.",
			TranslationSystem:    "당신은 훌륭한 영한 번역가입니다. 목표는 PDF 파일에서 추출한 문서를 번역하는 것입니다.",
			TranslationAlignment: "원본 텍스트를 의미 있는 단위로 나누고, 각 단위 뒤에 해당 부분의 번역을 배치하여 원문과 번역이 짝을 이루는 단락 형태로 결과를 제시하세요.",
		},
	},
}

// Languages returns the static language profile table.
func Languages() map[LanguageKey]*LanguageProfile {
	return languages
}

// Profile returns the profile for a language key.
func Profile(key LanguageKey) (*LanguageProfile, error) {
	p, ok := languages[key]
	if !ok {
		return nil, fmt.Errorf("unknown language %q", key)
	}
	return p, nil
}

// ValidateLanguages checks that every supported language supplies every label
// and prompt template. Called once at startup.
func ValidateLanguages() error {
	for key, p := range languages {
		fields := map[string]string{
			"greeting":              p.Labels.Greeting,
			"chat_greeting":         p.Labels.ChatGreeting,
			"select_language":       p.Labels.SelectLanguage,
			"upload_file":           p.Labels.UploadFile,
			"original_file":         p.Labels.OriginalFile,
			"translation":           p.Labels.Translation,
			"page_limit_warning":    p.Labels.PageLimitWarn,
			"spinner":               p.Labels.Spinner,
			"mode_selector":         p.Labels.ModeSelector,
			"copy_to_clipboard":     p.Labels.CopyToClipboard,
			"success_copy":          p.Labels.SuccessCopy,
			"url_prompt":            p.Labels.URLPrompt,
			"message_prompt":        p.Labels.MessagePrompt,
			"export_pdf":            p.Labels.ExportPDF,
			"translate_failed":      p.Labels.TranslateFailed,
			"chat_failed":           p.Labels.ChatFailed,
			"format_system":         p.Prompts.FormatSystem,
			"translation_system":    p.Prompts.TranslationSystem,
			"translation_alignment": p.Prompts.TranslationAlignment,
		}
		for name, value := range fields {
			if value == "" {
				return fmt.Errorf("language %q is missing %s", key, name)
			}
		}
	}
	return nil
}
