package i18n

// 文案 key
const (
	KeyAppName                 = "appName"
	KeyErrorPrompt             = "errorPrompt"
	KeyErrorUpload             = "errorUpload"
	KeyErrorGenerate           = "errorGenerate"
	KeyErrorTransform          = "errorTransform"
	KeyErrorImageOther         = "errorImageOther"
	KeyErrorFileTooLarge       = "errorFileTooLarge"
	KeyErrorFileType           = "errorFileType"
	KeyErrorBusy               = "errorBusy"
	KeyErrorGuidelinesMode     = "errorGuidelinesMode"
	KeyDisplayTitle            = "displayTitle"
	KeyDisplayPromptLabel      = "displayPromptLabel"
	KeyDisplayDescriptionLabel = "displayDescriptionLabel"
	KeyDisplayDownload         = "displayDownload"
)

var tables = map[Language]map[string]string{
	EN: en,
	AR: ar,
}

var en = map[string]string{
	KeyAppName:                 "Artify Me",
	KeyErrorPrompt:             "Please enter a prompt to generate an image.",
	KeyErrorUpload:             "Please upload an image to transform.",
	KeyErrorGenerate:           "Failed to generate image.",
	KeyErrorTransform:          "Failed to transform image.",
	KeyErrorImageOther:         "This image could not be processed. Please try a different image, such as a clear portrait.",
	KeyErrorFileTooLarge:       "File is too large. Please upload an image under 4MB.",
	KeyErrorFileType:           "Unsupported file type. Please upload a PNG, JPG, or WEBP image.",
	KeyErrorBusy:               "A creation is already in progress. Please wait for it to finish.",
	KeyErrorGuidelinesMode:     "Switch to Create or Transform to submit a prompt.",
	KeyDisplayTitle:            "Your Creation",
	KeyDisplayPromptLabel:      "Prompt",
	KeyDisplayDescriptionLabel: "Description",
	KeyDisplayDownload:         "Download image",

	"guidelinesTitle":          "Prompt Guidelines",
	"guidelinesIntro":          "A few tips to get the most out of the studio.",
	"guidelinesGeneralTitle":   "General tips",
	"guidelinesTip1":           "Be specific about the subject, mood, and setting.",
	"guidelinesTip2":           "Describe lighting and colors you want to see.",
	"guidelinesTip3":           "Keep prompts short and focused on one idea.",
	"guidelinesCreateTitle":    "Creating from text",
	"guidelinesCreateIntro":    "Every prompt is combined with the studio's portrait style. Describe:",
	"guidelinesCreatePoint1":   "Who or what is in the portrait.",
	"guidelinesCreatePoint2":   "Their expression and pose.",
	"guidelinesCreatePoint3":   "The background or environment.",
	"guidelinesCreateExample":  "Example: a young woman with silver hair, gentle smile, standing in a moonlit forest.",
	"guidelinesTransformTitle": "Transforming a photo",
	"guidelinesTransformIntro": "Upload a clear photo. The description is optional and adds details to the re-drawn portrait.",
	"guidelinesAvoidTitle":     "What to avoid",
	"guidelinesAvoidPoint":     "Images or prompts with violent, explicit, or copyrighted content may be rejected.",
}

var ar = map[string]string{
	KeyErrorPrompt:             "يرجى إدخال وصف لإنشاء صورة.",
	KeyErrorUpload:             "يرجى رفع صورة لتحويلها.",
	KeyErrorGenerate:           "فشل إنشاء الصورة.",
	KeyErrorTransform:          "فشل تحويل الصورة.",
	KeyErrorImageOther:         "تعذرت معالجة هذه الصورة. يرجى تجربة صورة أخرى، مثل صورة شخصية واضحة.",
	KeyErrorFileTooLarge:       "الملف كبير جدًا. يرجى رفع صورة أصغر من 4 ميغابايت.",
	KeyErrorFileType:           "نوع الملف غير مدعوم. يرجى رفع صورة PNG أو JPG أو WEBP.",
	KeyErrorBusy:               "هناك عملية إنشاء قيد التنفيذ. يرجى الانتظار حتى تنتهي.",
	KeyErrorGuidelinesMode:     "انتقل إلى الإنشاء أو التحويل لإرسال الوصف.",
	KeyDisplayTitle:            "إبداعك",
	KeyDisplayPromptLabel:      "الوصف",
	KeyDisplayDescriptionLabel: "التفاصيل",
	KeyDisplayDownload:         "تنزيل الصورة",

	"guidelinesTitle":          "إرشادات كتابة الوصف",
	"guidelinesIntro":          "بعض النصائح للحصول على أفضل النتائج.",
	"guidelinesGeneralTitle":   "نصائح عامة",
	"guidelinesTip1":           "كن محددًا في وصف الشخصية والمزاج والمكان.",
	"guidelinesTip2":           "صف الإضاءة والألوان التي تريدها.",
	"guidelinesTip3":           "اجعل الوصف قصيرًا ومركزًا على فكرة واحدة.",
	"guidelinesCreateTitle":    "الإنشاء من النص",
	"guidelinesCreateIntro":    "يُدمج كل وصف مع أسلوب البورتريه الخاص بالاستوديو. صف:",
	"guidelinesCreatePoint1":   "من أو ما الذي يظهر في الصورة.",
	"guidelinesCreatePoint2":   "التعبير والوضعية.",
	"guidelinesCreatePoint3":   "الخلفية أو البيئة.",
	"guidelinesCreateExample":  "مثال: شابة بشعر فضي وابتسامة لطيفة تقف في غابة مضاءة بنور القمر.",
	"guidelinesTransformTitle": "تحويل صورة",
	"guidelinesTransformIntro": "ارفع صورة واضحة. الوصف اختياري ويضيف تفاصيل إلى الصورة المعاد رسمها.",
	"guidelinesAvoidTitle":     "ما يجب تجنبه",
	"guidelinesAvoidPoint":     "قد يتم رفض الصور أو الأوصاف التي تحتوي على عنف أو محتوى صريح أو محمي بحقوق النشر.",
}
