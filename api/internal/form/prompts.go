package form

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

// prompts holds every user-facing template in both language directions.
// Placeholders use {name} syntax; see Prompt for the fallback rule.
var prompts = map[string]map[Direction]string{
	"greeting": {
		DirRTL: "أهلاً بك! سأساعدك في ملء هذا النموذج. لنبدأ بالبيان الأول",
		DirLTR: "Hello! I will help you fill out this form. Let's start with the first field",
	},
	"checkbox_prompt": {
		DirRTL: "هل تريد تحديد خانة '{label}'؟ قل نعم أو لا",
		DirLTR: "Do you want to check the box for '{label}'? Say yes or no",
	},
	"text_prompt": {
		DirRTL: "أدخل البيانات الخاصة بـ '{label}'",
		DirLTR: "Provide the information for '{label}'",
	},
	"heard_you_say": {
		DirRTL: "سمعتك تقول '{transcript}'",
		DirLTR: "I heard you say '{transcript}'",
	},
	"stt_error": {
		DirRTL: "لم أتمكن من فهم الصوت. من فضلك حاول مرة أخرى",
		DirLTR: "I couldn't understand the audio. Please try again",
	},
	"review_prompt": {
		DirRTL: "اكتمل النموذج. يمكنك الآن تحميله كملف صورة (PNG) أو كملف (PDF).",
		DirLTR: "The form is complete. You can now download it as a PNG image or a PDF file.",
	},
	"download_png": {
		DirRTL: "تنزيل كـ PNG",
		DirLTR: "Download as PNG",
	},
	"download_pdf": {
		DirRTL: "تنزيل كـ PDF",
		DirLTR: "Download as PDF",
	},
	"pdf_exploring": {
		DirRTL: "جاري استكشاف ملف PDF...",
		DirLTR: "Exploring PDF file...",
	},
	"pdf_found_pages": {
		DirRTL: "تم العثور على {total_pages} صفحة في ملف PDF",
		DirLTR: "Found {total_pages} pages in the PDF file",
	},
	"pdf_explain_stage": {
		DirRTL: "مرحلة الشرح: سنقوم أولاً بشرح محتوى كل صفحة",
		DirLTR: "Explanation stage: We will first explain the content of each page",
	},
	"pdf_explaining_page": {
		DirRTL: "جاري شرح الصفحة {page_number} من {total_pages}...",
		DirLTR: "Explaining page {page_number} of {total_pages}...",
	},
	"pdf_explain_page_button": {
		DirRTL: "شرح الصفحة {page_number}",
		DirLTR: "Explain page {page_number}",
	},
	"pdf_analyze_stage": {
		DirRTL: "مرحلة التحليل: البحث عن الحقول القابلة للتعبئة",
		DirLTR: "Analysis stage: Looking for fillable fields",
	},
	"pdf_analyzing_page": {
		DirRTL: "جاري تحليل الصفحة {page_number} من {total_pages}...",
		DirLTR: "Analyzing page {page_number} of {total_pages}...",
	},
	"pdf_fields_found": {
		DirRTL: "تم العثور على {field_count} حقل في الصفحة {page_number}",
		DirLTR: "Found {field_count} fields on page {page_number}",
	},
	"pdf_filling_page": {
		DirRTL: "تعبئة الصفحة {page_number} من {total_pages}",
		DirLTR: "Filling page {page_number} of {total_pages}",
	},
	"pdf_next_page": {
		DirRTL: "الانتقال للصفحة التالية",
		DirLTR: "Go to next page",
	},
	"pdf_start_analysis": {
		DirRTL: "بدء تحليل جميع الصفحات",
		DirLTR: "Start analyzing all pages",
	},
	"pdf_all_explained": {
		DirRTL: "تم شرح جميع الصفحات!",
		DirLTR: "All pages explained!",
	},
	"pdf_page_filled": {
		DirRTL: "تم الانتهاء من تعبئة الصفحة {page_number}",
		DirLTR: "Finished filling page {page_number}",
	},
	"pdf_finish_page": {
		DirRTL: "إنهاء تعبئة هذه الصفحة",
		DirLTR: "Finish this page",
	},
	"pdf_download_complete": {
		DirRTL: "تم الانتهاء من جميع الصفحات. يمكنك الآن تحميل ملف PDF الكامل",
		DirLTR: "All pages completed. You can now download the complete PDF file",
	},
	"pdf_download_filled": {
		DirRTL: "تحميل PDF المعبأ",
		DirLTR: "Download Filled PDF",
	},
	"pdf_no_fields_page": {
		DirRTL: "لا توجد حقول قابلة للتعبئة في هذه الصفحة",
		DirLTR: "No fillable fields found on this page",
	},
	"stt_spinner": {
		DirRTL: "جاري تحويل الصوت إلى نص...",
		DirLTR: "Transcribing audio...",
	},
	"confirmation_prompt": {
		DirRTL: "هل هذا صحيح؟",
		DirLTR: "Is this correct?",
	},
	"confirm_button": {
		DirRTL: "تأكيد",
		DirLTR: "Confirm",
	},
	"retry_button": {
		DirRTL: "إعادة المحاولة",
		DirLTR: "Retry",
	},
	"continue_button": {
		DirRTL: "متابعة",
		DirLTR: "Continue",
	},
	"or_type_prompt": {
		DirRTL: "أو، أدخل إجابتك في الأسفل:",
		DirLTR: "Or, type your answer below:",
	},
	"save_and_next_button": {
		DirRTL: "حفظ والمتابعة",
		DirLTR: "Save and Continue",
	},
	"skip_button": {
		DirRTL: "تخطي هذا الحقل",
		DirLTR: "Skip this field",
	},
	"checkbox_checked": {
		DirRTL: "تحديد الخانة",
		DirLTR: "Checked",
	},
	"checkbox_unchecked": {
		DirRTL: "عدم تحديد الخانة",
		DirLTR: "Unchecked",
	},
	"retry_prompt": {
		DirRTL: "تمام، لنجرب مرة أخرى",
		DirLTR: "Okay, let's try that again",
	},
	"ready_to_analyze": {
		DirRTL: "جاهز لتحليل النموذج...",
		DirLTR: "Ready to analyze the form...",
	},
	"analyzing_form": {
		DirRTL: "جاري تحليل النموذج، من فضلك انتظر...",
		DirLTR: "Analyzing form, please wait...",
	},
	"poor_quality": {
		DirRTL: "جودة الصورة غير كافية. هل تريد المتابعة على أي حال؟",
		DirLTR: "Image quality is poor. Do you want to continue anyway?",
	},
	"download_success": {
		DirRTL: "تم حفظ النموذج بنجاح!",
		DirLTR: "Form saved successfully!",
	},
	"upload_signature_prompt": {
		DirRTL: "ارفع صورة توقيعك هنا",
		DirLTR: "Upload your signature image here",
	},
	"signature_uploaded": {
		DirRTL: "تم رفع التوقيع بنجاح!",
		DirLTR: "Signature uploaded successfully!",
	},
	"preview_failed": {
		DirRTL: "تعذر تحديث معاينة النموذج",
		DirLTR: "Could not update the form preview",
	},
	"voice_enabled": {
		DirRTL: "تم تفعيل قراءة الإرشادات صوتياً",
		DirLTR: "Voice guidance enabled",
	},
	"upload_first": {
		DirRTL: "قم برفع صورة أو ملف PDF للنموذج أولاً",
		DirLTR: "Upload a form image or PDF file first",
	},
}

var placeholderRe = regexp.MustCompile(`\{[a-z_]+\}`)

// Prompt renders a localized template. If any placeholder stays unresolved
// (template and caller disagree on argument names) the raw template is
// returned instead of failing the pass, and the mismatch is logged for the
// operator.
func Prompt(dir Direction, key string, args map[string]string) string {
	byDir, ok := prompts[key]
	if !ok {
		log.Warn().Str("key", key).Msg("missing prompt key")
		return "Missing prompt for key: " + key
	}
	if dir != DirLTR && dir != DirRTL {
		dir = DirLTR
	}
	tmpl := byDir[dir]
	out := tmpl
	for k, v := range args {
		out = strings.ReplaceAll(out, "{"+k+"}", v)
	}
	if placeholderRe.MatchString(out) {
		log.Warn().Str("key", key).Str("template", tmpl).Msg("prompt formatting failed, returning raw template")
		return tmpl
	}
	return out
}
