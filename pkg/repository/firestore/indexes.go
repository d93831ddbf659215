package firestore

import "github.com/m-mizutani/fireconf"

func prefixed(prefix, name string) string {
	if prefix != "" {
		return prefix + "_" + name
	}
	return name
}

// IndexConfig returns the composite indexes the ListByUser queries need
func IndexConfig(collectionPrefix string) *fireconf.Config {
	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				Name: prefixed(collectionPrefix, CollectionConversations),
				Indexes: []fireconf.Index{
					// ConversationRepository.ListByUser: UserID ASC, ID ASC
					{
						Fields: []fireconf.IndexField{
							{Path: "UserID", Order: fireconf.OrderAscending},
							{Path: "ID", Order: fireconf.OrderAscending},
						},
					},
				},
			},
			{
				Name: prefixed(collectionPrefix, CollectionReservations),
				Indexes: []fireconf.Index{
					// ReservationRepository.ListByUser: UserID ASC, CreatedAt DESC, ID DESC
					{
						Fields: []fireconf.IndexField{
							{Path: "UserID", Order: fireconf.OrderAscending},
							{Path: "CreatedAt", Order: fireconf.OrderDescending},
							{Path: "ID", Order: fireconf.OrderDescending},
						},
					},
				},
			},
			{
				Name: prefixed(collectionPrefix, CollectionFavorites),
				Indexes: []fireconf.Index{
					// FavoriteRepository.ListByUser: UserID ASC, ID ASC
					{
						Fields: []fireconf.IndexField{
							{Path: "UserID", Order: fireconf.OrderAscending},
							{Path: "ID", Order: fireconf.OrderAscending},
						},
					},
				},
			},
		},
	}
}
