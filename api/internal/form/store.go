package form

import "sync"

// Store keeps one Session per chat. Updates for a chat are handled strictly
// sequentially by the bot loop, so the Session itself needs no locking; the
// maps only guard against lookups from other chats.
type Store struct {
	sessions sync.Map // chatID -> *Session
	voice    sync.Map // chatID -> bool, survives session replacement
}

func NewStore() *Store { return &Store{} }

func (st *Store) Get(chatID int64) (*Session, bool) {
	v, ok := st.sessions.Load(chatID)
	if !ok {
		return nil, false
	}
	return v.(*Session), true
}

func (st *Store) Put(chatID int64, s *Session) { st.sessions.Store(chatID, s) }

func (st *Store) Delete(chatID int64) { st.sessions.Delete(chatID) }

func (st *Store) VoiceEnabled(chatID int64) bool {
	if v, ok := st.voice.Load(chatID); ok {
		return v.(bool)
	}
	return false
}

func (st *Store) SetVoiceEnabled(chatID int64, on bool) { st.voice.Store(chatID, on) }
