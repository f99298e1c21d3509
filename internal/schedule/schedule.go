// Package schedule holds the fixed vaccination and developmental-milestone
// schedules. The content is static data: checklist identity is derived from
// it, so reordering or renaming entries silently orphans historical records.
package schedule

import (
	"strconv"
	"strings"
)

const (
	CategoryPhysical = "physical"
	CategorySocial   = "social"
)

type Vaccine struct {
	Name string `json:"name"`
}

type VaccinationGroup struct {
	Age      string    `json:"age"`
	Vaccines []Vaccine `json:"vaccines"`
}

type MilestoneItem struct {
	Description string `json:"description"`
}

type MilestoneGroup struct {
	Age      string          `json:"age"`
	Physical []MilestoneItem `json:"physical"`
	Social   []MilestoneItem `json:"social"`
}

// VaccinationSchedule follows the national infant schedule. Vaccine names
// carry dose qualifiers so every name is globally unique: the name is the
// sole identifier of a persisted vaccination record.
var VaccinationSchedule = []VaccinationGroup{
	{
		Age: "عند الولادة",
		Vaccines: []Vaccine{
			{Name: "التهاب الكبد B"},
			{Name: "BCG (السل)"},
			{Name: "شلل الأطفال (الجرعة صفر)"},
		},
	},
	{
		Age: "شهرين",
		Vaccines: []Vaccine{
			{Name: "خماسي (الجرعة الأولى)"},
			{Name: "شلل الأطفال (الجرعة الأولى)"},
			{Name: "المكورات الرئوية PCV13 (الجرعة الأولى)"},
			{Name: "الروتا (الجرعة الأولى)"},
		},
	},
	{
		Age: "4 أشهر",
		Vaccines: []Vaccine{
			{Name: "خماسي (الجرعة الثانية)"},
			{Name: "شلل الأطفال (الجرعة الثانية)"},
			{Name: "المكورات الرئوية PCV13 (الجرعة الثانية)"},
			{Name: "الروتا (الجرعة الثانية)"},
		},
	},
	{
		Age: "6 أشهر",
		Vaccines: []Vaccine{
			{Name: "خماسي (الجرعة الثالثة)"},
			{Name: "شلل الأطفال (الجرعة الثالثة)"},
			{Name: "المكورات الرئوية PCV13 (الجرعة الثالثة)"},
			{Name: "الروتا (الجرعة الثالثة)"},
		},
	},
	{
		Age: "9 أشهر",
		Vaccines: []Vaccine{
			{Name: "الحصبة والنكاف والحصبة الألمانية MMR (الجرعة الأولى)"},
		},
	},
	{
		Age: "12 شهر",
		Vaccines: []Vaccine{
			{Name: "الحصبة والنكاف والحصبة الألمانية MMR (الجرعة الثانية)"},
			{Name: "جدري الماء"},
		},
	},
	{
		Age: "18 شهر",
		Vaccines: []Vaccine{
			{Name: "خماسي (الجرعة المنشطة)"},
			{Name: "شلل الأطفال (الجرعة المنشطة)"},
		},
	},
}

var Milestones = []MilestoneGroup{
	{
		Age: "0-3 أشهر",
		Physical: []MilestoneItem{
			{Description: "يرفع رأسه ورقبته عند وضعه على بطنه"},
			{Description: "يتابع الأشياء المتحركة بعينيه"},
			{Description: "يفتح ويغلق يديه"},
		},
		Social: []MilestoneItem{
			{Description: "يبتسم استجابة للابتسامة"},
			{Description: "يهدأ عند سماع صوت مألوف"},
			{Description: "يبدأ بإصدار أصوات غير البكاء"},
		},
	},
	{
		Age: "4-6 أشهر",
		Physical: []MilestoneItem{
			{Description: "يتدحرج من الظهر إلى البطن والعكس"},
			{Description: "يجلس بمساعدة"},
			{Description: "يبدأ في الإمساك بالأشياء"},
		},
		Social: []MilestoneItem{
			{Description: "يضحك بصوت عالٍ"},
			{Description: "يظهر اهتماماً بالألعاب"},
			{Description: "يتعرف على الوجوه المألوفة"},
		},
	},
	{
		Age: "7-9 أشهر",
		Physical: []MilestoneItem{
			{Description: "يجلس دون دعم"},
			{Description: "يبدأ في الحبو"},
			{Description: "يقف بمساعدة"},
		},
		Social: []MilestoneItem{
			{Description: "يستجيب لاسمه"},
			{Description: "يقلد أصواتاً وحركات بسيطة"},
			{Description: "يظهر قلقاً من الغرباء"},
		},
	},
	{
		Age: "10-12 شهر",
		Physical: []MilestoneItem{
			{Description: "يقف لوحده لفترة قصيرة"},
			{Description: "يمشي بمساعدة أو بالتشبث بالأثاث"},
			{Description: "يلتقط أشياء صغيرة بإبهامه وسبابته"},
		},
		Social: []MilestoneItem{
			{Description: "يقول كلمة أو كلمتين مثل \"ماما\" أو \"بابا\""},
			{Description: "يشير للأشياء التي يريدها"},
			{Description: "يلعب ألعاباً بسيطة مثل \"بيبو\""},
		},
	},
}

// MilestoneKey synthesizes the stable identifier of a checkable milestone
// from its age range, category and position within that category's list.
// This is a stable contract: persisted records are matched by this key alone,
// so the same three inputs must always produce the same bytes.
func MilestoneKey(ageRange, category string, index int) string {
	return strings.ReplaceAll(ageRange, " ", "-") + "_" + category + "_" + strconv.Itoa(index)
}

// FindMilestone resolves an (age range, category, index) triple against the
// fixed schedule.
func FindMilestone(ageRange, category string, index int) (MilestoneItem, bool) {
	for _, group := range Milestones {
		if group.Age != ageRange {
			continue
		}
		var items []MilestoneItem
		switch category {
		case CategoryPhysical:
			items = group.Physical
		case CategorySocial:
			items = group.Social
		default:
			return MilestoneItem{}, false
		}
		if index < 0 || index >= len(items) {
			return MilestoneItem{}, false
		}
		return items[index], true
	}
	return MilestoneItem{}, false
}

// HasVaccine reports whether the name belongs to the fixed schedule.
func HasVaccine(name string) bool {
	for _, group := range VaccinationSchedule {
		for _, v := range group.Vaccines {
			if v.Name == name {
				return true
			}
		}
	}
	return false
}
