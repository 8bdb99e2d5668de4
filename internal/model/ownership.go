package model

// Owner identifies who is acting on a resource: a signed-in user, or an
// anonymous client holding an access key. Anonymous resources keep a nil
// OwnerID instead of pointing at a shared placeholder account.
type Owner struct {
	UserID    *uint
	AccessKey string
}

func UserOwner(id uint) Owner {
	return Owner{UserID: &id}
}

func AnonymousOwner(accessKey string) Owner {
	return Owner{AccessKey: accessKey}
}

func (o Owner) IsAnonymous() bool {
	return o.UserID == nil
}

func (o Owner) Valid() bool {
	return (o.UserID != nil && *o.UserID != 0) || o.AccessKey != ""
}

// Ownership is embedded by resources that belong to an Owner.
type Ownership struct {
	OwnerID   *uint  `gorm:"index" json:"owner_id"`
	AccessKey string `gorm:"size:64;index" json:"-"`
}

func NewOwnership(o Owner) Ownership {
	if o.UserID != nil {
		id := *o.UserID
		return Ownership{OwnerID: &id}
	}
	return Ownership{AccessKey: o.AccessKey}
}

func (w Ownership) OwnedBy(o Owner) bool {
	if w.OwnerID != nil {
		return o.UserID != nil && *o.UserID == *w.OwnerID
	}
	return o.UserID == nil && o.AccessKey != "" && o.AccessKey == w.AccessKey
}
