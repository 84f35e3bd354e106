package domain

// Owner/SetOwner let the store stamp and inspect record ownership without
// reflecting over each model.

func (t *Transaction) Owner() uint      { return t.UserID }
func (t *Transaction) SetOwner(id uint) { t.UserID = id }

func (s *Story) Owner() uint      { return s.UserID }
func (s *Story) SetOwner(id uint) { s.UserID = id }
