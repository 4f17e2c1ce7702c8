package owners

// Configuration es una entrada del documento de configuración (una por owner).
// Se lee una sola vez al arrancar; no hay hot-reload.
type Configuration struct {
	Name string   `yaml:"name"`
	Age  int      `yaml:"age"`
	Pets []string `yaml:"pets"`
}

// Owner convierte la entrada en un Owner.
func (c Configuration) Owner() Owner {
	return Owner{
		Name: c.Name,
		Age:  c.Age,
	}
}

// FromConfiguration produce un Owner por entrada, respetando el orden recibido.
func FromConfiguration(entries []Configuration) []Owner {
	out := make([]Owner, 0, len(entries))
	for _, c := range entries {
		out = append(out, c.Owner())
	}
	return out
}
