package storage

import (
	"reflect"
	"testing"
	"time"

	"github.com/valter-silva-au/taskpad/pkg/models"
	"pgregory.net/rapid"
)

func genTask(t *rapid.T) models.Task {
	task := models.Task{
		ID:          rapid.Int64Range(1, 1<<50).Draw(t, "id"),
		Title:       rapid.StringMatching(`[A-Za-z0-9][A-Za-z0-9 :#"'-]{0,30}`).Draw(t, "title"),
		Completed:   rapid.Bool().Draw(t, "completed"),
		Description: rapid.StringMatching(`[A-Za-z0-9 ,.!?-]{0,40}`).Draw(t, "description"),
	}
	if rapid.Bool().Draw(t, "hasDate") {
		d := models.NewDate(
			rapid.IntRange(1970, 2100).Draw(t, "year"),
			time.Month(rapid.IntRange(1, 12).Draw(t, "month")),
			rapid.IntRange(1, 28).Draw(t, "day"),
		)
		task.Date = &d
	}
	if rapid.Bool().Draw(t, "hasTime") {
		c, _ := models.NewClock(rapid.IntRange(0, 23).Draw(t, "hour"), rapid.IntRange(0, 59).Draw(t, "minute"))
		task.Time = &c
	}
	return task
}

func genTasks(t *rapid.T) []models.Task {
	return rapid.SliceOfN(rapid.Custom(genTask), 0, 20).Draw(t, "tasks")
}

// Property: save followed by load yields the same tasks in the same order,
// for both codecs.
func TestProperty_CodecRoundTrip(t *testing.T) {
	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			codec, err := NewCodec(format)
			if err != nil {
				t.Fatalf("NewCodec: %v", err)
			}
			rapid.Check(t, func(rt *rapid.T) {
				tasks := genTasks(rt)

				data, err := codec.Marshal(tasks)
				if err != nil {
					rt.Fatalf("marshal: %v", err)
				}
				got, err := codec.Unmarshal(data)
				if err != nil {
					rt.Fatalf("unmarshal: %v\n%s", err, data)
				}
				if len(tasks) == 0 && len(got) == 0 {
					return
				}
				if !reflect.DeepEqual(got, tasks) {
					rt.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, tasks)
				}
			})
		})
	}
}
