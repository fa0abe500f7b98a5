package application

import "context"

// assertOwner fails with an access-denied resource error unless the requester
// owns the resource.
func assertOwner(requesterID, ownerID string, kind ResourceKind, resourceID int64) error {
	if requesterID == "" || requesterID != ownerID {
		return accessDenied(kind, resourceID, requesterID)
	}
	return nil
}

// resolveOwned loads a resource and checks it belongs to the requester.
// Missing and foreign resources both yield a *ResourceError matching ErrNotFound.
func resolveOwned[T any](
	ctx context.Context,
	find func(context.Context, int64) (T, error),
	ownerOf func(T) string,
	kind ResourceKind,
	id int64,
	requesterID string,
) (T, error) {
	var zero T
	resource, err := find(ctx, id)
	if err != nil {
		if isNotFoundError(err) {
			return zero, notFound(kind, id, requesterID)
		}
		return zero, err
	}
	if err := assertOwner(requesterID, ownerOf(resource), kind, id); err != nil {
		return zero, err
	}
	return resource, nil
}

func eventListOwner(list EventList) string { return list.UserID }

func eventOwner(event OwnedEvent) string { return event.OwnerID }

func taskOwner(task Task) string { return task.OwnerID }
