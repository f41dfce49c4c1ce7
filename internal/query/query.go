// Package query filters contracts and groups them by city, then by client.
package query

import (
	"sort"
	"strings"

	"github.com/segyhp/loan-desk/internal/domain"
	"github.com/segyhp/loan-desk/internal/status"
)

// Bucket labels for contracts whose client has no city or no cpf
const (
	NoCity = "Sem cidade"
	NoCPF  = "Sem CPF"
)

// Filters are AND-combined. An empty list places no restriction.
type Filters struct {
	Termo    string         `json:"termo"`
	Cidades  []string       `json:"cidades"`
	Estados  []string       `json:"estados"`
	Statuses []status.State `json:"statuses"`
}

// Item is a contract paired with its derived status
type Item struct {
	Contract domain.Contract `json:"contrato"`
	Status   status.Result   `json:"status"`
}

type ClientGroup struct {
	CPF       string `json:"cpf"`
	Nome      string `json:"nome"`
	Contratos []Item `json:"contratos"`
}

type CityGroup struct {
	Cidade   string        `json:"cidade"`
	Clientes []ClientGroup `json:"clientes"`
}

// CityKey is the display bucket for a client's city
func CityKey(c domain.Client) string {
	if city := strings.TrimSpace(c.Cidade); city != "" {
		return city
	}
	return NoCity
}

// CPFKey is the display bucket for a client's cpf
func CPFKey(c domain.Client) string {
	if cpf := strings.TrimSpace(c.CPF); cpf != "" {
		return cpf
	}
	return NoCPF
}

// Match reports whether item passes every filter
func (f Filters) Match(item Item) bool {
	cli := item.Contract.Cliente
	city := CityKey(cli)

	if termo := strings.ToLower(strings.TrimSpace(f.Termo)); termo != "" {
		text := strings.ToLower(cli.Nome + " " + cli.CPF + " " + city)
		if !strings.Contains(text, termo) {
			return false
		}
	}

	if len(f.Cidades) > 0 && !contains(f.Cidades, city) {
		return false
	}

	if len(f.Estados) > 0 {
		state := strings.ToUpper(strings.TrimSpace(cli.Estado))
		if state == "" || !containsFold(f.Estados, state) {
			return false
		}
	}

	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			if s == item.Status.State {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// GroupByCityThenClient keeps the items that pass f and groups them by city
// and then by client cpf. Cities are sorted by name, clients by name then
// cpf, and each client's contracts newest first.
func GroupByCityThenClient(items []Item, f Filters) []CityGroup {
	byCity := make(map[string]map[string]*ClientGroup)

	for _, item := range items {
		if !f.Match(item) {
			continue
		}

		city := CityKey(item.Contract.Cliente)
		cpf := CPFKey(item.Contract.Cliente)

		clients, ok := byCity[city]
		if !ok {
			clients = make(map[string]*ClientGroup)
			byCity[city] = clients
		}
		group, ok := clients[cpf]
		if !ok {
			group = &ClientGroup{CPF: cpf}
			clients[cpf] = group
		}
		group.Contratos = append(group.Contratos, item)
	}

	out := make([]CityGroup, 0, len(byCity))
	for city, clients := range byCity {
		cg := CityGroup{Cidade: city, Clientes: make([]ClientGroup, 0, len(clients))}
		for _, group := range clients {
			SortNewestFirst(group.Contratos)
			group.Nome = group.Contratos[0].Contract.Cliente.Nome
			cg.Clientes = append(cg.Clientes, *group)
		}
		sort.Slice(cg.Clientes, func(i, j int) bool {
			a, b := cg.Clientes[i], cg.Clientes[j]
			if a.Nome != b.Nome {
				return a.Nome < b.Nome
			}
			return a.CPF < b.CPF
		})
		out = append(out, cg)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Cidade < out[j].Cidade
	})
	return out
}

// SortNewestFirst orders items by creation time descending. Ties keep
// their stored order.
func SortNewestFirst(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Contract.CriadoEm.After(items[j].Contract.CriadoEm)
	})
}

// CitiesAndStates returns the distinct trimmed cities and upper-cased
// states across contracts, both sorted. Blank values are skipped.
func CitiesAndStates(contracts []domain.Contract) (cities, states []string) {
	citySet := make(map[string]struct{})
	stateSet := make(map[string]struct{})

	for _, c := range contracts {
		if city := strings.TrimSpace(c.Cliente.Cidade); city != "" {
			citySet[city] = struct{}{}
		}
		if state := strings.ToUpper(strings.TrimSpace(c.Cliente.Estado)); state != "" {
			stateSet[state] = struct{}{}
		}
	}

	return sortedKeys(citySet), sortedKeys(stateSet)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if strings.TrimSpace(s) == v {
			return true
		}
	}
	return false
}

func containsFold(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(strings.TrimSpace(s), v) {
			return true
		}
	}
	return false
}
