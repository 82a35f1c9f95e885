package service

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/filehub-app/filehub/internal/logging"
	"github.com/filehub-app/filehub/internal/models"
	"github.com/filehub-app/filehub/internal/repo"
	"github.com/filehub-app/filehub/internal/transport"
)

const DefaultChatPageSize = 20

// ActivityService merges file and folder rows into one time-ordered feed.
// Files and folders are fetched with two separate queries and merged in
// memory; the merge is the contract, not the query shape.
type ActivityService struct {
	Repo *repo.GormRepo
}

// RecentActivities returns the offset-paginated activity feed of a user.
// A page index past the end yields an empty page, not an error.
func (s *ActivityService) RecentActivities(ctx context.Context, userID string, pageIndex, pageSize int) (*transport.PaginatedList[transport.RecentActivityDTO], error) {
	l := logging.FromContext(ctx).With("svc", "activity.recent", "user_id", userID)

	files, err := s.Repo.RecentFiles(ctx, userID)
	if err != nil {
		l.Error("recent_activities_failed", "error", err)
		return nil, err
	}
	folders, err := s.Repo.RecentFolders(ctx, userID)
	if err != nil {
		l.Error("recent_activities_failed", "error", err)
		return nil, err
	}

	combined := make([]transport.RecentActivityDTO, 0, len(files)+len(folders))
	for _, f := range files {
		combined = append(combined, transport.RecentActivityDTO{
			ID:        f.ID,
			Name:      f.Name,
			Type:      "File",
			Action:    actionFor(f.SenderID, userID),
			CreatedAt: f.CreatedAt,
		})
	}
	for _, f := range folders {
		combined = append(combined, transport.RecentActivityDTO{
			ID:        f.ID,
			Name:      f.Name,
			Type:      "Folder",
			Action:    actionFor(f.SenderID, userID),
			CreatedAt: f.CreatedAt,
		})
	}

	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].CreatedAt.After(combined[j].CreatedAt)
	})

	offset, limit := pagedWindow(pageIndex, pageSize)
	total := int64(len(combined))

	var page []transport.RecentActivityDTO
	if offset < len(combined) {
		end := offset + limit
		if end > len(combined) {
			end = len(combined)
		}
		page = combined[offset:end]
	}

	list := transport.NewPaginatedList(page, total, normalizePage(pageIndex), limit)
	return &list, nil
}

// ChatHistory returns one cursor page of the conversation between senderID
// and receiverID, newest first. Pass the returned NextTimestamp as the next
// call's before to walk backwards without duplicates.
func (s *ActivityService) ChatHistory(ctx context.Context, senderID, receiverID string, before *time.Time, pageSize int) (*transport.InfiniteScrollList[transport.ChatActivityDTO], error) {
	l := logging.FromContext(ctx).With("svc", "activity.chat_history", "user_id", senderID)

	if pageSize <= 0 {
		pageSize = DefaultChatPageSize
	}

	// pageSize+1 from each side: either stream alone could fill the page.
	files, err := s.Repo.FilesWithFriend(ctx, senderID, receiverID, before, pageSize+1)
	if err != nil {
		l.Error("chat_history_failed", "error", err)
		return nil, err
	}
	folders, err := s.Repo.FoldersWithFriend(ctx, senderID, receiverID, before, pageSize+1)
	if err != nil {
		l.Error("chat_history_failed", "error", err)
		return nil, err
	}

	combined := make([]transport.ChatActivityDTO, 0, len(files)+len(folders))
	for _, f := range files {
		combined = append(combined, fileChatActivity(f, senderID))
	}
	for _, f := range folders {
		combined = append(combined, folderChatActivity(f, senderID))
	}

	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].CreatedAt.After(combined[j].CreatedAt)
	})

	if len(combined) > pageSize+1 {
		combined = combined[:pageSize+1]
	}

	hasMore := len(combined) > pageSize
	if hasMore {
		combined = combined[:pageSize]
	}

	var nextTimestamp *time.Time
	if len(combined) > 0 {
		last := combined[len(combined)-1].CreatedAt
		nextTimestamp = &last
	}

	return &transport.InfiniteScrollList[transport.ChatActivityDTO]{
		Items:         combined,
		HasMore:       hasMore,
		NextTimestamp: nextTimestamp,
	}, nil
}

func actionFor(itemSenderID, viewerID string) string {
	if itemSenderID == viewerID {
		return "Sent"
	}
	return "Received"
}

func counterpartyName(senderID, viewerID string, sender, receiver *models.User) string {
	other := sender
	if senderID == viewerID {
		other = receiver
	}
	if other == nil {
		return ""
	}
	return other.UserName
}

func fileChatActivity(f models.File, viewerID string) transport.ChatActivityDTO {
	return transport.ChatActivityDTO{
		ID:         f.ID,
		Name:       f.Name,
		Type:       "File",
		Action:     actionFor(f.SenderID, viewerID),
		UserName:   counterpartyName(f.SenderID, viewerID, f.Sender, f.Receiver),
		CreatedAt:  f.CreatedAt,
		FileType:   f.FileType,
		Size:       f.FileSize,
		Permission: f.Permission,
		Metadata: map[string]string{
			"FileType": f.FileType,
			"Size":     strconv.FormatInt(f.FileSize, 10),
			"Version":  strconv.Itoa(f.VersionNumber),
		},
	}
}

func folderChatActivity(f models.Folder, viewerID string) transport.ChatActivityDTO {
	return transport.ChatActivityDTO{
		ID:         f.ID,
		Name:       f.Name,
		Type:       "Folder",
		Action:     actionFor(f.SenderID, viewerID),
		UserName:   counterpartyName(f.SenderID, viewerID, f.Sender, f.Receiver),
		CreatedAt:  f.CreatedAt,
		ItemCount:  len(f.Files),
		Permission: f.Permission,
		Metadata: map[string]string{
			"ItemCount":  strconv.Itoa(len(f.Files)),
			"Permission": f.Permission,
		},
	}
}
