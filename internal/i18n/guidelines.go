package i18n

// Section 提示词指南的一节
type Section struct {
	Title   string   `json:"title"`
	Intro   string   `json:"intro,omitempty"`
	Points  []string `json:"points,omitempty"`
	Example string   `json:"example,omitempty"`
}

// Guide 本地化后的提示词指南
type Guide struct {
	Title    string    `json:"title"`
	Intro    string    `json:"intro"`
	Sections []Section `json:"sections"`
}

// Guidelines 按指定语言组装提示词指南
func Guidelines(lang Language) Guide {
	return Guide{
		Title: T("guidelinesTitle", lang),
		Intro: T("guidelinesIntro", lang),
		Sections: []Section{
			{
				Title: T("guidelinesGeneralTitle", lang),
				Points: []string{
					T("guidelinesTip1", lang),
					T("guidelinesTip2", lang),
					T("guidelinesTip3", lang),
				},
			},
			{
				Title: T("guidelinesCreateTitle", lang),
				Intro: T("guidelinesCreateIntro", lang),
				Points: []string{
					T("guidelinesCreatePoint1", lang),
					T("guidelinesCreatePoint2", lang),
					T("guidelinesCreatePoint3", lang),
				},
				Example: T("guidelinesCreateExample", lang),
			},
			{
				Title: T("guidelinesTransformTitle", lang),
				Intro: T("guidelinesTransformIntro", lang),
			},
			{
				Title:  T("guidelinesAvoidTitle", lang),
				Points: []string{T("guidelinesAvoidPoint", lang)},
			},
		},
	}
}
