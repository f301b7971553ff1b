package achievement

import "github.com/puck-challenge/backend/internal/shot"

// Catalog returns the full challenge template set. Callers get a fresh
// slice each time so personalization can mutate entries freely.
func Catalog() []Template {
	out := make([]Template, len(catalog))
	copy(out, catalog)
	return out
}

var catalog = []Template{
	// Quantity.
	{ID: "qty_wrist_easy", Style: StyleQuantity, Title: "Wrist Shot Week", Description: "Take 30 wrist shots. You can spread them out over any sessions!", ShotType: shot.Wrist, GoalType: GoalCount, GoalValue: 30, Difficulty: Easy},
	{ID: "qty_snap_hard", Style: StyleQuantity, Title: "Snap Shot Challenge", Description: "Take 60 snap shots. You can do it in any session(s)!", ShotType: shot.Snap, GoalType: GoalCount, GoalValue: 60, Difficulty: Hard},
	{ID: "qty_backhand_hardest", Style: StyleQuantity, Title: "Backhand Mastery", Description: "Take 100 backhands. You can split them up however you want!", ShotType: shot.Backhand, GoalType: GoalCount, GoalValue: 100, Difficulty: Hardest},
	{ID: "qty_slap_impossible", Style: StyleQuantity, Title: "Slap Shot Marathon", Description: "Take 200 slap shots. Spread them out over the week!", ShotType: shot.Slap, GoalType: GoalCount, GoalValue: 200, Difficulty: Impossible},
	{ID: "qty_mixed_medium", Style: StyleQuantity, Title: "Mix It Up", Description: "Take at least 20 shots of each type (wrist, snap, backhand, slap).", ShotType: shot.All, GoalType: GoalCount, GoalValue: 20, Difficulty: Medium},
	{ID: "qty_lefty_easy", Style: StyleQuantity, Title: "Lefty Challenge", Description: "Take 25 shots with your non-dominant hand.", ShotType: shot.Any, GoalType: GoalCount, GoalValue: 25, Difficulty: Easy},
	{ID: "qty_speed_50", Style: StyleQuantity, Title: "Speed Demon", Description: "Take 50 shots in under 10 minutes in a single session.", ShotType: shot.Any, GoalType: GoalCountTime, GoalValue: 50, TimeLimit: 10, Difficulty: Medium},
	{ID: "qty_rapidfire_20", Style: StyleQuantity, Title: "Rapid Fire", Description: "Take 20 shots in 60 seconds or less.", ShotType: shot.Any, GoalType: GoalCountTime, GoalValue: 20, TimeLimit: 1, Difficulty: Hard},
	{ID: "qty_balanced_40", Style: StyleQuantity, Title: "Balanced Attack", Description: "Take 10 wrist, 10 snap, 10 backhand, and 10 slap shots.", ShotType: shot.All, GoalType: GoalCount, GoalValue: 10, Difficulty: Medium},
	{ID: "qty_evening_25", Style: StyleQuantity, Title: "Evening Shooter", Description: "Take 25 shots after 7pm in a single session.", ShotType: shot.Any, GoalType: GoalCountEvening, GoalValue: 25, Difficulty: Easy},

	// N shots for X sessions in a row.
	{ID: "wrist_20_three_sessions", Style: StyleQuantity, Title: "Wrist Shot Consistency", Description: "Take at least 20 wrist shots for any 3 sessions in a row. You can keep trying until you get it!", ShotType: shot.Wrist, GoalType: GoalCountPerSession, GoalValue: 20, Sessions: 3, Difficulty: Medium},
	{ID: "snap_15_two_sessions", Style: StyleQuantity, Title: "Snap Shot Streak", Description: "Take at least 15 snap shots for any 2 sessions in a row. Keep working at it!", ShotType: shot.Snap, GoalType: GoalCountPerSession, GoalValue: 15, Sessions: 2, Difficulty: Easy},
	{ID: "backhand_10_four_sessions", Style: StyleQuantity, Title: "Backhand Streak", Description: "Take at least 10 backhands for any 4 sessions in a row. You can keep trying until you get it!", ShotType: shot.Backhand, GoalType: GoalCountPerSession, GoalValue: 10, Sessions: 4, Difficulty: Hard},
	{ID: "slap_15_three_sessions", Style: StyleQuantity, Title: "Slap Shot Consistency", Description: "Take at least 15 slap shots for any 3 sessions in a row.", ShotType: shot.Slap, GoalType: GoalCountPerSession, GoalValue: 15, Sessions: 3, Difficulty: Medium},

	// Fun and social, completed manually in the app.
	{ID: "fun_celebration_easy", Style: StyleFun, Title: "Celebration Station", Description: "Come up with a new goal celebration and use it after every session!", GoalType: "celebration", GoalValue: 1, Difficulty: Easy, IsBonus: true},
	{ID: "fun_coach_hard", Style: StyleFun, Title: "Coach's Tip", Description: "Ask your coach or parent for a tip and try to use it in your next session.", GoalType: "coach_tip", GoalValue: 1, Difficulty: Hard, IsBonus: true},
	{ID: "fun_video_medium", Style: StyleFun, Title: "Video Star", Description: "Record a video of your best shot and share it with a friend or coach.", GoalType: "video", GoalValue: 1, Difficulty: Medium, IsBonus: true},
	{ID: "fun_trickshot_hard", Style: StyleFun, Title: "Trick Shot Showdown", Description: "Invent a new trick shot and attempt it in a session.", GoalType: "trickshot", GoalValue: 1, Difficulty: Hard, IsBonus: true},
	{ID: "fun_teamwork_easy", Style: StyleFun, Title: "Teamwork Makes the Dream Work", Description: "Help a teammate or sibling with their shooting.", GoalType: "teamwork", GoalValue: 1, Difficulty: Easy, IsBonus: true},
	{ID: "fun_music_easy", Style: StyleFun, Title: "Music Motivation", Description: "Create a playlist and shoot to your favorite songs.", GoalType: "music", GoalValue: 1, Difficulty: Easy, IsBonus: true},
	{ID: "social_share_easy", Style: StyleFun, Title: "Share the Love", Description: "Share your progress on social media or with a friend.", GoalType: "share", GoalValue: 1, Difficulty: Easy, IsBonus: true},
	{ID: "social_challenge_medium", Style: StyleFun, Title: "Challenge a Friend", Description: "Challenge a friend to a shooting contest.", GoalType: "challenge_friend", GoalValue: 1, Difficulty: Medium, IsBonus: true},
	{ID: "social_teamwork_hard", Style: StyleFun, Title: "Teamwork Triumph", Description: "Shoot pucks with at least 2 teammates.", GoalType: "teamwork_drill", GoalValue: 1, Difficulty: Hard, IsBonus: true},

	// Accuracy, requires the pro subscription for hit tracking.
	{ID: "acc_wrist_70", Style: StyleAccuracy, Title: "Wrist Wizard", Description: "Achieve 70% accuracy on wrist shots in a single session.", ShotType: shot.Wrist, GoalType: GoalAccuracy, TargetAccuracy: 70, Sessions: 1, Difficulty: Medium, ProLevel: true},
	{ID: "acc_snap_80", Style: StyleAccuracy, Title: "Snap Supreme", Description: "Achieve 80% accuracy on snap shots in a single session.", ShotType: shot.Snap, GoalType: GoalAccuracy, TargetAccuracy: 80, Sessions: 1, Difficulty: Hard, ProLevel: true},
	{ID: "acc_backhand_60", Style: StyleAccuracy, Title: "Backhand Bull", Description: "Achieve 60% accuracy on backhands in any 2 sessions.", ShotType: shot.Backhand, GoalType: GoalAccuracy, TargetAccuracy: 60, Sessions: 2, Difficulty: Easy, ProLevel: true},
	{ID: "acc_slap_75", Style: StyleAccuracy, Title: "Slap Shot Specialist", Description: "Achieve 55% accuracy on slap shots in any 2 sessions.", ShotType: shot.Slap, GoalType: GoalAccuracy, TargetAccuracy: 55, Sessions: 2, Difficulty: Medium, ProLevel: true},
	{ID: "acc_morning_ace", Style: StyleAccuracy, Title: "Morning Ace", Description: "Achieve 65% accuracy in a morning session (before 10am).", ShotType: shot.Any, GoalType: GoalAccuracyMorning, TargetAccuracy: 65, Sessions: 1, Difficulty: Medium, ProLevel: true},
	{ID: "acc_wrist_easy", Style: StyleAccuracy, Title: "Wrist Shot Precision", Description: "Achieve 60% accuracy on wrist shots in any 2 sessions in a row. Keep trying until you get it!", ShotType: shot.Wrist, GoalType: GoalAccuracy, TargetAccuracy: 60, Sessions: 2, Difficulty: Easy, ProLevel: true, IsStreak: true},
	{ID: "acc_snap_hard", Style: StyleAccuracy, Title: "Snap Shot Sniper", Description: "Achieve 70% accuracy on snap shots in any 3 sessions in a row. You can keep working at it all week!", ShotType: shot.Snap, GoalType: GoalAccuracy, TargetAccuracy: 70, Sessions: 3, Difficulty: Hard, ProLevel: true, IsStreak: true},
	{ID: "acc_backhand_hardest", Style: StyleAccuracy, Title: "Backhand Bullseye", Description: "Achieve 80% accuracy on backhands in any 4 sessions in a row. Don't give up if you miss early!", ShotType: shot.Backhand, GoalType: GoalAccuracy, TargetAccuracy: 80, Sessions: 4, Difficulty: Hardest, ProLevel: true, IsStreak: true},
	{ID: "acc_slap_impossible", Style: StyleAccuracy, Title: "Slap Shot Sharpshooter", Description: "Achieve 90% accuracy on slap shots in any 5 sessions in a row. You have all week to get there!", ShotType: shot.Slap, GoalType: GoalAccuracy, TargetAccuracy: 90, Sessions: 5, Difficulty: Impossible, ProLevel: true, IsStreak: true},

	// Ratio.
	{ID: "ratio_snap_slap_2to1", Style: StyleRatio, Title: "Snap to Slap", Description: "Take 2 snap shots for every 1 slap shot.", ShotType: shot.Snap, SecondaryType: shot.Slap, GoalType: GoalRatio, GoalValue: 2, SecondaryValue: 1, Difficulty: Medium},
	{ID: "ratio_even_steven", Style: StyleRatio, Title: "Even Steven", Description: "Take an equal number of wrist and backhand shots.", ShotType: shot.Wrist, SecondaryType: shot.Backhand, GoalType: GoalRatioEqual, GoalValue: 1, SecondaryValue: 1, Difficulty: Easy},
	{ID: "ratio_backhand_wrist_easy", Style: StyleRatio, Title: "Backhand Booster", Description: "Take 2 backhands for every 1 wrist shot you take.", ShotType: shot.Backhand, SecondaryType: shot.Wrist, GoalType: GoalRatio, GoalValue: 2, SecondaryValue: 1, Difficulty: Easy},
	{ID: "ratio_backhand_snap_hard", Style: StyleRatio, Title: "Backhand vs Snap", Description: "Take 3 backhands for every 1 snap shot you take.", ShotType: shot.Backhand, SecondaryType: shot.Snap, GoalType: GoalRatio, GoalValue: 3, SecondaryValue: 1, Difficulty: Hard},
	{ID: "ratio_slap_snap_medium", Style: StyleRatio, Title: "Slap vs Snap", Description: "Take 2 slap shots for every 1 snap shot you take.", ShotType: shot.Slap, SecondaryType: shot.Snap, GoalType: GoalRatio, GoalValue: 2, SecondaryValue: 1, Difficulty: Medium},
	{ID: "variety_master", Style: StyleQuantity, Title: "Variety Master", Description: "Take at least 5 of each shot type (wrist, snap, backhand, slap) in a single session.", ShotType: shot.All, GoalType: GoalVariety, GoalValue: 5, Difficulty: Medium},

	// Consistency.
	{ID: "consistency_earlybird", Style: StyleConsistency, Title: "Early Bird", Description: "Complete a shooting session before 7am three times.", GoalType: GoalEarlySessions, GoalValue: 3, Difficulty: Hard},
	{ID: "consistency_doubleheader", Style: StyleConsistency, Title: "Double Header", Description: "Complete two shooting sessions in one day.", GoalType: GoalDoubleSessions, GoalValue: 1, Difficulty: Hard},
	{ID: "consistency_weekendwarrior", Style: StyleConsistency, Title: "Weekend Warrior", Description: "Complete a session on both Saturday and Sunday.", GoalType: GoalWeekendSessions, GoalValue: 2, Difficulty: Medium},
	{ID: "consistency_streak_five", Style: StyleConsistency, Title: "Five Alive", Description: "Shoot pucks at least 5 days this week.", GoalType: GoalStreak, GoalValue: 5, Difficulty: Hard},
	{ID: "consistency_daily_easy", Style: StyleConsistency, Title: "Daily Shooter", Description: "Shoot pucks every day.", GoalType: GoalStreak, GoalValue: 7, Difficulty: Hard},
	{ID: "consistency_sessions_hard", Style: StyleConsistency, Title: "Session Grinder", Description: "Complete 5 shooting sessions. If you miss a day, you can still finish strong!", GoalType: GoalSessions, GoalValue: 5, Difficulty: Hard},
	{ID: "consistency_morning_medium", Style: StyleConsistency, Title: "Morning Warrior", Description: "Complete 3 morning shooting sessions (before 10am).", GoalType: GoalMorningSessions, GoalValue: 3, Difficulty: Medium},

	// Progress.
	{ID: "progress_wrist_improve_easy", Style: StyleProgress, Title: "Wrist Shot Progress", Description: "Improve your wrist shot accuracy by 5%. Progress counts, even if it takes a few tries!", ShotType: shot.Wrist, GoalType: GoalImprovement, Improvement: 5, Difficulty: Easy, ProLevel: true},
	{ID: "progress_snap_improve_hard", Style: StyleProgress, Title: "Snap Shot Progress", Description: "Improve your snap shot accuracy by 10%. You can keep working at it all week!", ShotType: shot.Snap, GoalType: GoalImprovement, Improvement: 10, Difficulty: Hard, ProLevel: true},
	{ID: "progress_target_hits", Style: StyleProgress, Title: "Target Hitter", Description: "Hit 100 targets.", ShotType: shot.Any, GoalType: GoalTargetHitsIncrease, Improvement: 100, Difficulty: Easy, ProLevel: true},
}
