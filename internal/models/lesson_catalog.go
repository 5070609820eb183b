package models

// seedLessons is the built-in lesson catalog. It is never mutated; use
// SeedLessons or SeedLesson to obtain copies.
var seedLessons = [...]Lesson{
	{
		ID:           1,
		Category:     "Body & Posture",
		Title:        "5-Minute Flow for Daily Rejuvenation",
		Duration:     "5 min",
		Description:  "Refresh your body in just 5 minutes! Gentle exercises to improve posture, loosen your back, and boost daily energy.",
		TipTitle:     "Remember",
		TipText:      "Take deep breaths with each movement to relax your muscles and maximize posture benefits.",
		VideoURL:     "/image/videoplayback.mp4",
		ThumbnailURL: "/image/body-posture.png",
		PreviewURL:   "/image/Lesson1.png",
	},
	{
		ID:           2,
		Category:     "Belly & Waist",
		Title:        "5-Minute Activation for a Younger Waistline",
		Duration:     "5 min",
		Description:  "Targeted exercises to strengthen your core, reduce belly tension, and improve waistline definition in just 5 minutes.",
		TipTitle:     "Remember",
		TipText:      "Focus on controlled movements and engage your core throughout each exercise for maximum effectiveness.",
		VideoURL:     "/image/videoplayback3.mp4",
		ThumbnailURL: "/image/belly-waist.png",
		PreviewURL:   "/image/Lesson1.png",
	},
	{
		ID:           3,
		Category:     "Face & Neck",
		Title:        "Get rid of swellness: 5 min massage technique",
		Duration:     "5 min",
		Description:  "Gentle massage techniques to reduce facial swelling, improve circulation, and restore natural glow to your skin.",
		TipTitle:     "Remember",
		TipText:      "Apply gentle pressure and use upward motions to boost circulation and achieve the best anti-aging results.",
		VideoURL:     "/image/videoplayback2.mp4",
		ThumbnailURL: "/image/face-neck.png",
		PreviewURL:   "/image/Lesson1.png",
	},
}

// SeedLessons returns a copy of the catalog in id order.
func SeedLessons() []Lesson {
	out := make([]Lesson, len(seedLessons))
	copy(out, seedLessons[:])
	return out
}

// SeedLesson returns a copy of the catalog entry for id.
func SeedLesson(id LessonID) (Lesson, bool) {
	for _, l := range seedLessons {
		if l.ID == id {
			return l, true
		}
	}
	return Lesson{}, false
}

// KnownLessonIDs lists every catalog id in ascending order.
func KnownLessonIDs() []LessonID {
	ids := make([]LessonID, 0, len(seedLessons))
	for _, l := range seedLessons {
		ids = append(ids, l.ID)
	}
	return ids
}

// IsKnownLesson reports whether id is part of the catalog.
func IsKnownLesson(id LessonID) bool {
	_, ok := SeedLesson(id)
	return ok
}
