package utils

import (
	"fmt"
	"sort"

	"github.com/xlab/treeprint"

	"GoSpamGuard/app/storage"
)

// TruncateRunes caps s at max runes. The classifier cap is a policy
// knob counted in characters, not bytes.
func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// BuildStatsTree renders per-chat moderation aggregates as a tree:
// chats branch into users, users list action counts.
func BuildStatsTree(stats []storage.ChatStat) string {
	tree := treeprint.NewWithRoot("moderation report")

	byChat := make(map[int64]map[int64][]storage.ChatStat)
	var chatIDs []int64
	for _, st := range stats {
		if byChat[st.ChatID] == nil {
			byChat[st.ChatID] = make(map[int64][]storage.ChatStat)
			chatIDs = append(chatIDs, st.ChatID)
		}
		byChat[st.ChatID][st.UserID] = append(byChat[st.ChatID][st.UserID], st)
	}
	sort.Slice(chatIDs, func(i, j int) bool { return chatIDs[i] < chatIDs[j] })

	for _, chatID := range chatIDs {
		chatBranch := tree.AddBranch(fmt.Sprintf("chat %d", chatID))

		users := byChat[chatID]
		var userIDs []int64
		for userID := range users {
			userIDs = append(userIDs, userID)
		}
		sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })

		for _, userID := range userIDs {
			line := fmt.Sprintf("user %d:", userID)
			for _, st := range users[userID] {
				line += fmt.Sprintf(" %s=%d", st.Action, st.Count)
			}
			chatBranch.AddNode(line)
		}
	}

	return tree.String()
}
