package session

import (
	"testing"
	"time"

	"github.com/EmanueleCodes/boxes-game/protocol"
	"github.com/EmanueleCodes/boxes-game/room"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lobby(t *testing.T) (*Coordinator, CreateResult, JoinResult) {
	t.Helper()
	c, _, _ := newTestCoordinator(t)
	created, err := c.Create("Alice")
	require.NoError(t, err)
	joined, err := c.Join(created.RoomID, "Bob")
	require.NoError(t, err)
	return c, created, joined
}

func TestMessagesBeforeJoin(t *testing.T) {
	c, created, _ := lobby(t)
	conn := &recordingConn{}
	client := c.NewClient(created.RoomID, conn)

	client.HandleMessage([]byte(`{"type":"ping","payload":{}}`))
	client.HandleMessage(answerMessage(1, 4))

	want := protocol.NewError("must join room first")
	assert.Equal(t, []protocol.ServerMessage{want, want}, conn.drain(t))
	assert.True(t, conn.IsOpen())
}

func TestInvalidMessage(t *testing.T) {
	c, created, _ := lobby(t)
	conn := &recordingConn{}
	client := c.NewClient(created.RoomID, conn)

	for _, data := range []string{`not json`, `{"type":"join"}`, `{"type":"dance","payload":{}}`} {
		client.HandleMessage([]byte(data))
	}
	msgs := conn.drain(t)
	require.Len(t, msgs, 3)
	for _, msg := range msgs {
		assert.Equal(t, protocol.NewError("invalid message format"), msg)
	}
}

func TestPingPong(t *testing.T) {
	c, created, _ := lobby(t)
	client, conn := connect(t, c, created.RoomID, created.PlayerID)
	conn.drain(t)

	client.HandleMessage([]byte(`{"type":"ping","payload":{}}`))
	assert.Equal(t, []protocol.ServerMessage{protocol.PongMessage{}}, conn.drain(t))
}

func TestJoinUnknownRoom(t *testing.T) {
	c, _, _ := lobby(t)
	conn := &recordingConn{}
	client := c.NewClient("NOPE00", conn)

	err := client.Join("", "whoever")
	assert.ErrorIs(t, err, room.ErrRoomNotFound)
	assert.Equal(t, []protocol.ServerMessage{protocol.NewError("room not found")}, conn.drain(t))
	assert.False(t, conn.IsOpen())
}

func TestJoinUnknownPlayer(t *testing.T) {
	c, created, _ := lobby(t)
	conn := &recordingConn{}
	client := c.NewClient(created.RoomID, conn)

	client.HandleMessage(joinMessage(created.RoomID, "stranger"))
	assert.Equal(t, []protocol.ServerMessage{protocol.NewError("player not found in room")}, conn.drain(t))
	assert.False(t, conn.IsOpen())
	assert.Empty(t, client.PlayerID())
}

func TestJoinForAnotherRoom(t *testing.T) {
	c, created, _ := lobby(t)
	conn := &recordingConn{}
	client := c.NewClient(created.RoomID, conn)

	err := client.Join("ZZZ999", created.PlayerID)
	assert.ErrorIs(t, err, ErrRoomMismatch)
	assert.False(t, conn.IsOpen())
}

func TestJoinRoomFromMessageOnly(t *testing.T) {
	c, created, _ := lobby(t)
	conn := &recordingConn{}
	client := c.NewClient("", conn)

	client.HandleMessage(joinMessage("abc123", created.PlayerID))
	assert.Equal(t, created.PlayerID, client.PlayerID())
	assert.Equal(t, []string{protocol.TypePlayerJoined}, messageTypes(conn.drain(t)))
}

func TestJoinTwice(t *testing.T) {
	c, created, joined := lobby(t)
	client, conn := connect(t, c, created.RoomID, created.PlayerID)
	conn.drain(t)

	err := client.Join(created.RoomID, joined.PlayerID)
	assert.ErrorIs(t, err, ErrAlreadyJoined)
	assert.Equal(t, created.PlayerID, client.PlayerID())
	assert.True(t, conn.IsOpen())
}

func TestJoinBroadcastsPlayerJoined(t *testing.T) {
	c, created, joined := lobby(t)
	_, aliceConn := connect(t, c, created.RoomID, created.PlayerID)
	aliceConn.drain(t)

	connect(t, c, created.RoomID, joined.PlayerID)
	assert.Equal(t, []protocol.ServerMessage{protocol.PlayerJoinedMessage{
		PlayerID:     joined.PlayerID,
		PlayerName:   "Bob",
		TotalPlayers: 2,
	}}, aliceConn.drain(t))
}

func TestDisconnectBeforeStartRemovesPlayer(t *testing.T) {
	c, created, joined := lobby(t)
	_, aliceConn := connect(t, c, created.RoomID, created.PlayerID)
	bob, _ := connect(t, c, created.RoomID, joined.PlayerID)
	aliceConn.drain(t)

	bob.Disconnect()
	assert.Equal(t, []protocol.ServerMessage{protocol.PlayerLeftMessage{PlayerID: joined.PlayerID, TotalPlayers: 1}}, aliceConn.drain(t))

	state, err := c.Status(created.RoomID)
	require.NoError(t, err)
	require.Len(t, state.Players, 1)
	assert.Equal(t, created.PlayerID, state.Players[0].ID)
	assert.NotContains(t, state.Scores, joined.PlayerID)
}

func TestLastPlayerLeavingDeletesRoom(t *testing.T) {
	c, store, _ := newTestCoordinator(t)
	created, err := c.Create("Alice")
	require.NoError(t, err)
	alice, _ := connect(t, c, created.RoomID, created.PlayerID)

	alice.Disconnect()
	assert.False(t, store.RoomExists(created.RoomID))
}

func TestDisconnectDuringGameKeepsPlayer(t *testing.T) {
	c, created, joined := lobby(t)
	_, aliceConn := connect(t, c, created.RoomID, created.PlayerID)
	bob, _ := connect(t, c, created.RoomID, joined.PlayerID)
	require.NoError(t, c.Start(created.RoomID))
	aliceConn.drain(t)

	bob.Disconnect()
	bob.Disconnect()
	assert.Equal(t, []protocol.ServerMessage{protocol.PlayerLeftMessage{PlayerID: joined.PlayerID, TotalPlayers: 2}}, aliceConn.drain(t))

	state, err := c.Status(created.RoomID)
	require.NoError(t, err)
	require.Len(t, state.Players, 2)
	assert.False(t, state.Players[1].Active)
	assert.Equal(t, room.GameStarted, state.GameState)
}

func TestRejoinDuringGameReactivatesPlayer(t *testing.T) {
	c, created, joined := lobby(t)
	connect(t, c, created.RoomID, created.PlayerID)
	bob, _ := connect(t, c, created.RoomID, joined.PlayerID)
	require.NoError(t, c.Start(created.RoomID))
	bob.Disconnect()

	connect(t, c, created.RoomID, joined.PlayerID)
	state, err := c.Status(created.RoomID)
	require.NoError(t, err)
	assert.True(t, state.Players[1].Active)
}

func TestSupersededConnection(t *testing.T) {
	c, created, _ := lobby(t)
	first, firstConn := connect(t, c, created.RoomID, created.PlayerID)
	_, secondConn := connect(t, c, created.RoomID, created.PlayerID)

	assert.False(t, firstConn.IsOpen())
	assert.True(t, secondConn.IsOpen())

	first.Disconnect()
	state, err := c.Status(created.RoomID)
	require.NoError(t, err)
	assert.Len(t, state.Players, 2, "the stale connection does not remove the player")

	secondConn.drain(t)
	c.Shutdown()
	assert.False(t, secondConn.IsOpen())
}

func TestDisconnectWithoutJoin(t *testing.T) {
	c, created, _ := lobby(t)
	client := c.NewClient(created.RoomID, &recordingConn{})
	client.Disconnect()

	state, err := c.Status(created.RoomID)
	require.NoError(t, err)
	assert.Len(t, state.Players, 2)
}

func TestAnswerErrors(t *testing.T) {
	c, created, joined := lobby(t)
	alice, aliceConn := connect(t, c, created.RoomID, created.PlayerID)
	connect(t, c, created.RoomID, joined.PlayerID)
	aliceConn.drain(t)

	alice.HandleMessage(answerMessage(1, 4))
	assert.Equal(t, []protocol.ServerMessage{protocol.NewError(room.ErrNotAnswering.Error())}, aliceConn.drain(t))

	require.NoError(t, c.Start(created.RoomID))
	aliceConn.drain(t)

	alice.HandleMessage(answerMessage(2, 4))
	alice.HandleMessage(answerMessage(1, -1))
	alice.HandleMessage(answerMessage(1, 4))
	alice.HandleMessage(answerMessage(1, 5))
	assert.Equal(t, []protocol.ServerMessage{
		protocol.NewError(room.ErrWrongRound.Error()),
		protocol.NewError(room.ErrNegativeCount.Error()),
		protocol.NewError(room.ErrAlreadyAnswered.Error()),
	}, aliceConn.drain(t))
}

func TestReadyRefreshesActivity(t *testing.T) {
	c, store, clock := newTestCoordinator(t)
	created, err := c.Create("Alice")
	require.NoError(t, err)
	alice, _ := connect(t, c, created.RoomID, created.PlayerID)

	clock.Advance(4 * time.Minute)
	alice.HandleMessage([]byte(`{"type":"ready","payload":{}}`))
	clock.Advance(2 * time.Minute)
	c.Cleanup()
	assert.True(t, store.RoomExists(created.RoomID))
}

func TestMessagesAfterRoomIsGone(t *testing.T) {
	c, store, _ := newTestCoordinator(t)
	created, err := c.Create("Alice")
	require.NoError(t, err)
	alice, conn := connect(t, c, created.RoomID, created.PlayerID)
	conn.drain(t)

	store.DeleteRoom(created.RoomID)
	alice.HandleMessage([]byte(`{"type":"ping","payload":{}}`))
	assert.Equal(t, []protocol.ServerMessage{protocol.NewError("room not found")}, conn.drain(t))
	assert.False(t, conn.IsOpen())
}
