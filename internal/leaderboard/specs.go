package leaderboard

var textCategories = []CategoryMapping{
	{Key: "chinese", Slug: "chinese"},
	{Key: "coding", Slug: "coding"},
	{Key: "creative_writing", Slug: "creative-writing"},
	{Key: "english", Slug: "english"},
	{Key: "expert", Slug: "expert"},
	{Key: "french", Slug: "french"},
	{Key: "full", Slug: "overall"},
	{Key: "german", Slug: "german"},
	{Key: "hard_6", Slug: "hard-prompts"},
	{Key: "hard_english_6", Slug: "hard-prompts-english"},
	{Key: "if", Slug: "instruction-following"},
	{Key: "industry_business_and_management_and_financial_operations", Slug: "industry-business-and-management-and-financial-operations"},
	{Key: "industry_entertainment_and_sports_and_media", Slug: "industry-entertainment-and-sports-and-media"},
	{Key: "industry_legal_and_government", Slug: "industry-legal-and-government"},
	{Key: "industry_life_and_physical_and_social_science", Slug: "industry-life-and-physical-and-social-science"},
	{Key: "industry_mathematical", Slug: "industry-mathematical"},
	{Key: "industry_medicine_and_healthcare", Slug: "industry-medicine-and-healthcare"},
	{Key: "industry_software_and_it_services", Slug: "industry-software-and-it-services"},
	{Key: "industry_writing_and_literature_and_language", Slug: "industry-writing-and-literature-and-language"},
	{Key: "japanese", Slug: "japanese"},
	{Key: "korean", Slug: "korean"},
	{Key: "long_user", Slug: "longer-query"},
	{Key: "math", Slug: "math"},
	{Key: "multiturn", Slug: "multi-turn"},
	{Key: "no_tie", Slug: "exclude-ties"},
	{Key: "russian", Slug: "russian"},
	{Key: "spanish", Slug: "spanish"},
}

var visionCategories = []CategoryMapping{
	{Key: "captioning", Slug: "captioning"},
	{Key: "chinese", Slug: "chinese"},
	{Key: "creative_writing_vision", Slug: "creative-writing"},
	{Key: "diagram", Slug: "diagram"},
	{Key: "english", Slug: "english"},
	{Key: "entity_recognition", Slug: "entity-recognition"},
	{Key: "full", Slug: "overall"},
	{Key: "homework", Slug: "homework"},
	{Key: "humor", Slug: "humor"},
	{Key: "ocr", Slug: "ocr"},
}

var imageCategories = []CategoryMapping{
	{Key: "full", Slug: "overall"},
}

// FileSpecs returns the leaderboard files kept in sync, in processing order.
// The returned slice is a fresh copy, the category tables are shared and must
// not be modified.
func FileSpecs() []FileSpec {
	return []FileSpec{
		{Filename: "leaderboard-text.json", Modality: "text", Categories: textCategories, StyleControl: StyleControlOff},
		{Filename: "leaderboard-text-style-control.json", Modality: "text", Categories: textCategories, StyleControl: StyleControlOn},
		{Filename: "leaderboard-vision.json", Modality: "vision", Categories: visionCategories, StyleControl: StyleControlOff},
		{Filename: "leaderboard-vision-style-control.json", Modality: "vision", Categories: visionCategories, StyleControl: StyleControlOn},
		{Filename: "leaderboard-image.json", Modality: "text-to-image", Categories: imageCategories, StyleControl: StyleControlUnset},
	}
}

// LookupFileSpec finds the spec of `filename` among FileSpecs.
func LookupFileSpec(filename string) (FileSpec, bool) {
	for _, spec := range FileSpecs() {
		if spec.Filename == filename {
			return spec, true
		}
	}
	return FileSpec{}, false
}
