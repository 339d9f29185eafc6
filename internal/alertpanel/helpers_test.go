package alertpanel

import "github.com/platformbuilds/mirador-alert-panel/internal/models"

// frame builds a Frame from alternating column names and values, keeping the
// column order as written.
func frame(kv ...interface{}) models.Frame {
	f := models.Frame{}
	for i := 0; i+1 < len(kv); i += 2 {
		f.Fields = append(f.Fields, models.FrameField{
			Name:   kv[i].(string),
			Values: []interface{}{kv[i+1]},
		})
	}
	return f
}
